// Command token prints an owner bearer token signed with JWT_SECRET_KEY.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/config"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
)

func main() {
	subject := flag.String("sub", "owner", "token subject")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET_KEY is not set, the API runs without auth")
		os.Exit(1)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiration).GenerateOwnerToken(*subject)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "expires", time.Unix(expiresAt, 0).Format(time.RFC3339))
	fmt.Println(token)
}
