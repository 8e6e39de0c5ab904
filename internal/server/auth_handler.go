package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/A-ndrey/spdesk/internal/auth"
	"github.com/A-ndrey/spdesk/internal/auth/token"
	"github.com/A-ndrey/spdesk/internal/failure"
	"github.com/A-ndrey/spdesk/internal/middleware"
)

const multipartMemory = 32 << 20

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code"`
}

// claims returns the session of an authenticated request. Routes using it
// are mounted behind middleware.Session.
func claims(r *http.Request) token.Claims {
	c, _ := middleware.ClaimsFrom(r.Context())
	return c
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, tok, err := s.deps.Accounts.Login(r.Context(), req.Email, req.Password, req.TOTPCode)
	switch {
	case errors.Is(err, auth.ErrTwoFactorRequired):
		// the frontend reads this as a prompt, not a failure
		writeJSON(w, http.StatusOK, envelope{"success": false, "requires_2fa": true, "error": failure.Message(err)})
		return
	case errors.Is(err, auth.ErrInvalidTOTPCode):
		writeJSON(w, http.StatusUnauthorized, envelope{"success": false, "requires_2fa": true, "error": failure.Message(err)})
		return
	case err != nil:
		s.writeError(w, r, err)
		return
	}

	s.setSession(w, tok)
	ok(w, http.StatusOK, "user", user)
}

func (s *Server) logout(w http.ResponseWriter, _ *http.Request) {
	clearSession(w)
	ok(w, http.StatusOK, "message", "Logged out successfully")
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req auth.Registration
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.deps.Accounts.Register(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusCreated, "user", user)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	user, err := s.deps.Accounts.Me(r.Context(), claims(r).Subject)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "user", user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Accounts.ChangePassword(r.Context(), claims(r).Subject, req.CurrentPassword, req.NewPassword); err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "message", "Password changed successfully")
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req auth.ProfileUpdate
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.deps.Accounts.UpdateProfile(r.Context(), claims(r).Subject, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "user", user)
}

// uploadProfile accepts multipart name, nickname and profile_picture fields,
// all optional. Text fields are validated before the picture is stored, and
// everything is saved as one update.
func (s *Server) uploadProfile(w http.ResponseWriter, r *http.Request) {
	const op = "server.uploadProfile"

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.writeError(w, r, failure.Validation(op, "Invalid multipart form"))
		return
	}

	var update auth.ProfileUpdate
	if v := r.FormValue("name"); v != "" {
		update.Name = &v
	}
	if v := r.FormValue("nickname"); v != "" {
		update.Nickname = &v
	}
	if err := update.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	userID := claims(r).Subject

	file, header, err := r.FormFile("profile_picture")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		s.writeError(w, r, failure.Validation(op, "Invalid profile picture"))
		return
	default:
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, auth.MaxProfilePictureSize+1))
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		url, err := s.deps.Accounts.StoreProfilePicture(r.Context(), userID, header.Header.Get("Content-Type"), data)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		update.ProfilePicture = &url
	}

	user, err := s.deps.Accounts.UpdateProfile(r.Context(), userID, update)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "user", user)
}

func (s *Server) setupTOTP(w http.ResponseWriter, r *http.Request) {
	setup, err := s.deps.Accounts.SetupTOTP(r.Context(), claims(r).Subject)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "secret", setup.Secret, "qr_code", setup.QRCode)
}

type codeRequest struct {
	Code string `json:"code"`
}

func (s *Server) verifyTOTP(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Accounts.EnableTOTP(r.Context(), claims(r).Subject, req.Code); err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "message", "2FA enabled successfully")
}

type passwordRequest struct {
	Password string `json:"password"`
}

func (s *Server) disableTOTP(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Accounts.DisableTOTP(r.Context(), claims(r).Subject, req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "message", "2FA disabled successfully")
}
