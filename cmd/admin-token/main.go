// Command admin-token issues a signed admin token for the order admin page.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/retailku/order-admin/pkg/auth"
	"github.com/retailku/order-admin/pkg/config"
)

func main() {
	var (
		subject = flag.String("sub", "admin", "token subject")
		name    = flag.String("name", "Admin", "display name")
		role    = flag.String("role", auth.RoleAdmin, "role claim")
	)
	flag.Parse()

	cfg, err := config.Load("order-admin")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	m := auth.NewManager(&cfg.JWT)
	if !m.Enabled() {
		fmt.Fprintln(os.Stderr, "ORDERADMIN_JWT_SECRET is empty")
		os.Exit(1)
	}

	token, expiresAt, err := m.GenerateAccessToken(*subject, *name, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", expiresAt.Format(time.RFC3339))
}
