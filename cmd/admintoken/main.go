// Command admintoken mints a bearer token for the admin API.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"mailgun-admin/config"
	"mailgun-admin/internal/core/domain"
	"mailgun-admin/internal/service"
)

func main() {
	var (
		configFile = flag.String("config", os.Getenv("MG_CONFIG_FILE"), "config file (defaults to ./config.yaml)")
		subject    = flag.String("subject", "", "admin identity recorded in audit logs")
		perms      = flag.String("permissions", string(domain.PermissionAccess), "comma-separated permissions")
		expiry     = flag.Duration("expiry", 0, "token lifetime (defaults to jwt.expiry)")
	)
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.JWT.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	lifetime := cfg.JWT.Expiry
	if *expiry > 0 {
		lifetime = *expiry
	}

	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, lifetime, cfg.JWT.Issuer)
	token, expiresAt, err := tokenSvc.Generate(*subject, parsePermissions(*perms))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to mint token: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "expires %s\n", expiresAt.UTC().Format(time.RFC3339))
	fmt.Println(token)
}

func parsePermissions(s string) []domain.Permission {
	var out []domain.Permission
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, domain.Permission(strings.ToUpper(p)))
		}
	}
	return out
}
