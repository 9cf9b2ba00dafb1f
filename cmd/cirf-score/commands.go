package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cirf-api/internal/config"
	"github.com/phrazzld/cirf-api/internal/domain/scoring"
	"github.com/phrazzld/cirf-api/internal/service/auth"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cli holds the state shared by every subcommand.
type cli struct {
	scorer scoring.Service
	env    *viper.Viper
}

// answersFile is the accepted layout of an answers file. A bare object of
// question ids is accepted as well.
type answersFile struct {
	Answers scoring.AnswerSet `json:"answers"`
}

func newRootCommand(scorer scoring.Service) *cobra.Command {
	env := viper.New()
	env.SetEnvPrefix(config.EnvPrefix)
	env.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = env.BindEnv("auth.jwt_secret")
	_ = env.BindEnv("auth.issuer")

	c := &cli{scorer: scorer, env: env}

	root := &cobra.Command{
		Use:           "cirf-score",
		Short:         "Score cultural innovation assessments",
		Long:          "Inspect the assessment catalogue and score answer files offline",
		SilenceUsage: true,
	}

	root.AddCommand(c.typesCommand())
	root.AddCommand(c.questionsCommand())
	root.AddCommand(c.scoreCommand())
	root.AddCommand(c.tokenCommand())
	return root
}

func (c *cli) typesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List assessment types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tNAME\tQUESTIONS\tUNLOCKED BY\tDESCRIPTION")
			for _, cfg := range c.scorer.Configs() {
				unlock := cfg.UnlockRequirement
				if unlock == "" {
					unlock = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
					cfg.Type, cfg.FullName, len(cfg.Questions), unlock, cfg.Description)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) questionsCommand() *cobra.Command {
	var assessmentType string

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the questions of an assessment type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.scorer.Config(assessmentType)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSECTION\tKIND\tTEXT")
			for _, q := range cfg.Questions {
				kind := string(q.Kind)
				if q.Reverse {
					kind += " (reversed)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", q.ID, q.Section, kind, q.Text)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&assessmentType, "type", "t", "", "assessment type")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func (c *cli) scoreCommand() *cobra.Command {
	var (
		assessmentType string
		answersPath    string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score an answers file",
		Long:  "Score a JSON answers file (\"-\" reads stdin) and print the report as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := readAnswers(cmd.InOrStdin(), answersPath)
			if err != nil {
				return err
			}

			result, err := c.scorer.Score(assessmentType, answers)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVarP(&assessmentType, "type", "t", "", "assessment type")
	cmd.Flags().StringVarP(&answersPath, "answers", "a", "", "answers file")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

func (c *cli) tokenCommand() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token",
		Long:  "Sign a bearer token for a user with CIRF_AUTH_JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}

			jwtService, err := auth.NewJWTService(config.AuthConfig{
				JWTSecret: c.env.GetString("auth.jwt_secret"),
				Issuer:    c.env.GetString("auth.issuer"),
			})
			if err != nil {
				return err
			}

			token, err := jwtService.GenerateToken(cmd.Context(), id, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id (UUID)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func readAnswers(stdin io.Reader, path string) (scoring.AnswerSet, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}
	if isBlank(data) {
		return nil, errors.New("answers file is empty")
	}

	var wrapped answersFile
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Answers != nil {
		return wrapped.Answers, nil
	}

	var answers scoring.AnswerSet
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}
	if answers == nil {
		answers = scoring.AnswerSet{}
	}
	return answers, nil
}

// isBlank reports whether data holds only whitespace.
func isBlank(data []byte) bool {
	return len(bytes.TrimSpace(data)) == 0
}
