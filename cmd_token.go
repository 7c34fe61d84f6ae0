package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/BerniceZTT/crm_workload/models"
	"github.com/BerniceZTT/crm_workload/utils"
)

var (
	tokenID       string
	tokenUsername string
	tokenRole     string
	tokenTTL      time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "签发访问看板接口的JWT令牌",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		token, err := utils.GenerateToken(tokenID, tokenUsername, models.UserRole(tokenRole), tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	f := tokenCmd.Flags()
	f.StringVar(&tokenID, "id", "dashboard", "用户ID")
	f.StringVar(&tokenUsername, "username", "dashboard", "用户名")
	f.StringVar(&tokenRole, "role", string(models.UserRoleVIEWER), "角色 ADMIN 或 VIEWER")
	f.DurationVar(&tokenTTL, "ttl", utils.DefaultTokenTTL, "有效期")
}
