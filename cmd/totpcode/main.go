// Command totpcode prints the current TOTP code for a base32 secret, for
// checking 2FA enrollment by hand.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/A-ndrey/spdesk/internal/auth/mfa/totp"
)

func main() {
	secret := flag.String("secret", os.Getenv("SP_TOTP_SECRET"), "base32 shared secret")
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "usage: totpcode -secret <base32>")
		os.Exit(2)
	}

	code, err := totp.GenerateCode(*secret, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(code)
}
