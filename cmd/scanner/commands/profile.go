package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/kscanner/internal/profile"
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "생성 프로파일 관리",
	Long: `모의 데이터 생성 프로파일(YAML)을 조회하거나 검증합니다.

Subcommands:
  show      - 프로파일 출력 (기본: 내장 프로파일)
  validate  - 프로파일 파일 검증

Example:
  go run ./cmd/scanner profile show > my_profile.yaml
  go run ./cmd/scanner profile validate my_profile.yaml`,
}

var (
	profileShowCmd = &cobra.Command{
		Use:   "show",
		Short: "프로파일 출력",
		RunE:  showProfile,
	}

	profileValidateCmd = &cobra.Command{
		Use:   "validate [file]",
		Short: "프로파일 파일 검증",
		Args:  cobra.ExactArgs(1),
		RunE:  validateProfile,
	}
)

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileValidateCmd)
}

func showProfile(cmd *cobra.Command, args []string) error {
	if profilePath == "" {
		_, err := cmd.OutOrStdout().Write(profile.DefaultYAML())
		return err
	}

	_, data, err := profile.Load(profilePath)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func validateProfile(cmd *cobra.Command, args []string) error {
	p, _, err := profile.Load(args[0])
	if err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	hash, err := profile.Hash(p)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	PrintSuccess(out, "프로파일 검증 통과")
	PrintKeyValue(out, "ID", p.Meta.ProfileID, 8)
	PrintKeyValue(out, "Version", p.Meta.Version, 8)
	PrintKeyValue(out, "종목 수", fmt.Sprintf("%d", len(p.Roster)), 8)
	PrintKeyValue(out, "Hash", hash, 8)
	return nil
}
