package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"fault-service/internal/auth"
	"fault-service/internal/config"
	"fault-service/internal/model"
)

var (
	tokenRole string
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an operator token signed with JWT_ACCESS_SECRET",
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(model.UserRoleOperator), "ADMIN, OPERATOR or VIEWER")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	role := model.UserRole(strings.ToUpper(tokenRole))
	switch role {
	case model.UserRoleAdmin, model.UserRoleOperator, model.UserRoleViewer:
	default:
		return fmt.Errorf("unknown role %q", tokenRole)
	}

	now := time.Now()
	token, err := auth.NewParser(cfg.Auth.AccessSecret).Issue(
		model.Principal{UserID: uuid.New(), Role: role},
		jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
