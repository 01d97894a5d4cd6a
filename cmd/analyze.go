package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/farewelly/farewelly/internal/analysis"
	"github.com/farewelly/farewelly/internal/logger"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptConstructive = "Constructive feedback"
	PromptRoast        = "Roast mode"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Interactively analyze a candidate against a job without the HTTP server",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func analyze(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	hr, generator := buildCollaborators(ctx, config, logger)

	profiles, err := hr.ListProfiles()
	if err != nil {
		logger.Fatal("listing profiles", zap.Error(err))
	}
	if len(profiles) == 0 {
		logger.Info("exiting", zap.String("reason", "no profiles in the configured source"))
		return
	}

	profileItems := make([]string, 0, len(profiles))
	for _, p := range profiles {
		profileItems = append(profileItems, fmt.Sprintf("%s %s / %s", p.Key, p.Name, p.Email))
	}

	profilePrompt := promptui.Select{
		Label: "Choose a candidate and press ENTER",
		Items: profileItems,
	}
	profileIdx, _, err := profilePrompt.Run()
	if err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}

	jobs, err := hr.ListJobs()
	if err != nil {
		logger.Fatal("listing jobs", zap.Error(err))
	}
	if len(jobs) == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs on the configured board"))
		return
	}

	jobItems := make([]string, 0, len(jobs))
	for _, j := range jobs {
		jobItems = append(jobItems, fmt.Sprintf("%s %s / %s / %s", j.Key, j.Title, j.Company, j.Location))
	}

	jobPrompt := promptui.Select{
		Label: "Choose a job and press ENTER",
		Items: jobItems,
	}
	jobIdx, _, err := jobPrompt.Run()
	if err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}

	modePrompt := promptui.Select{
		Label: "Feedback style",
		Items: []string{PromptConstructive, PromptRoast},
	}
	_, mode, err := modePrompt.Run()
	if err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}

	service := analysis.NewService(hr, generator, logger)

	result, err := service.Analyze(ctx, profiles[profileIdx].Key, jobs[jobIdx].Key, mode == PromptRoast)
	if err != nil {
		logger.Fatal("analyzing candidate", zap.Error(err))
	}

	printResult(result)
}

func printResult(result *analysis.Result) {
	fmt.Printf("\n%s vs %s\n", result.Candidate.Name, result.ChatContext.JobTitle)
	fmt.Printf("score: %.2f (threshold %.2f, matched: %t)\n\n", result.Score, result.Threshold, result.Matched)

	fmt.Println("skill gaps:")
	printSkills(result.SkillGaps)

	fmt.Println("strengths:")
	printSkills(result.Strengths)

	if len(result.Recommendations) > 0 {
		fmt.Println("recommendations:")
		for _, rec := range result.Recommendations {
			fmt.Printf("  - [%s] %s: %s\n", rec.Type, rec.Title, rec.Description)
			for _, course := range rec.Courses {
				fmt.Printf("      %s (%s) %s\n", course.Name, course.Platform, course.URL)
			}
		}
		fmt.Println()
	}

	fmt.Printf("email:\n%s\n", strings.TrimSpace(result.Email))
}

func printSkills(items []analysis.SkillItem) {
	if len(items) == 0 {
		fmt.Println("  none")
	}
	for _, item := range items {
		fmt.Printf("  - %s (candidate %d / required %d)\n", item.Name, item.CandidateLevel, item.RequiredLevel)
	}
	fmt.Println()
}
