// devtoken はローカル確認用にユーザーを用意してアクセストークンを出力する。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"

	"github.com/joho/godotenv"
)

func main() {
	email := flag.String("email", "", "user email (required)")
	name := flag.String("name", "", "display name")
	role := flag.String("role", string(model.RoleUser), "USER or ADMIN")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if err := run(*email, *name, model.Role(strings.ToUpper(*role)), *ttl); err != nil {
		fmt.Fprintln(os.Stderr, "devtoken:", err)
		os.Exit(1)
	}
}

func run(email string, name string, role model.Role, ttl time.Duration) error {
	if email == "" {
		return fmt.Errorf("-email is required")
	}
	if role != model.RoleUser && role != model.RoleAdmin {
		return fmt.Errorf("invalid role %q", role)
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	ctx := context.Background()
	users := infraRepo.NewUserGormRepository(gormDB)

	//なければ作る
	u, err := users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		if name == "" {
			name = strings.Split(email, "@")[0]
		}
		u = &model.User{Name: name, Email: email, Role: role, IsActive: true}
		if err := users.Create(ctx, u); err != nil {
			return err
		}
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, ttl)
	token, exp, err := issuer.Issue(auth.Identity{
		UserID:       u.ID,
		Role:         u.Role,
		TokenVersion: u.TokenVersion,
		Name:         u.Name,
		Email:        u.Email,
	}, time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("user_id=%d role=%s expires=%s\n%s\n", u.ID, u.Role, exp.Format(time.RFC3339), token)
	return nil
}
