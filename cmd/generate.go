package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flowsmith/flowsmith/utils/config"
	"github.com/flowsmith/flowsmith/utils/database"
	"github.com/flowsmith/flowsmith/utils/fileutil"
	"github.com/flowsmith/flowsmith/utils/models"
	"github.com/flowsmith/flowsmith/utils/pipeline"
)

var (
	generateFile         string
	generateOutput       string
	generateModel        string
	generateType         string
	generateIntegrations []string
	generateMaxModules   int
	generateSaveDB       string
)

var generateCmd = &cobra.Command{
	Use:   "generate [request text]",
	Short: "Generate a workflow from a natural-language request",
	Long: `Generate an automation workflow from a natural-language request.
The request is read from the command arguments, or from a file with --file.`,
	Run: func(cmd *cobra.Command, args []string) {
		description := strings.TrimSpace(strings.Join(args, " "))
		if generateFile != "" {
			data, err := fileutil.SafeReadFile(generateFile)
			if err != nil {
				log.Fatalf("Error reading request file: %v", err)
			}
			description = strings.TrimSpace(string(data))
		}
		if description == "" {
			log.Fatal("A request is required: pass it as arguments or with --file")
		}

		envConfig, err := config.LoadEnvConfig(config.GetEnvPath())
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Fatalf("Environment file not found at %s. Run 'flowsmith configure' first, or set FLOWSMITH_ENV.", config.GetEnvPath())
			}
			log.Fatalf("Error loading environment configuration: %v", err)
		}

		provider, err := models.ResolveForModel(envConfig, generateModel)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p := pipeline.New(provider, pipeline.Options{
			Model:      generateModel,
			MaxModules: generateMaxModules,
		})

		req := pipeline.Request{
			Description:  description,
			Type:         generateType,
			Integrations: generateIntegrations,
		}

		progress := pipeline.ProgressFunc(func(stage, message string, percent int) {
			fmt.Printf("[%3d%%] %s\n", percent, message)
		})

		result, err := p.Run(ctx, req, progress)
		if err != nil {
			log.Fatalf("Generation failed: %v", err)
		}

		workflowJSON, err := json.MarshalIndent(result.FinalWorkflow, "", "  ")
		if err != nil {
			log.Fatalf("Error encoding workflow: %v", err)
		}

		if generateOutput != "" {
			if err := os.WriteFile(generateOutput, workflowJSON, 0644); err != nil {
				log.Fatalf("Error writing workflow to %s: %v", generateOutput, err)
			}
			fmt.Printf("\nWorkflow written to %s (%d nodes)\n", generateOutput, len(result.FinalWorkflow.Nodes))
		} else {
			fmt.Printf("\n%s\n", workflowJSON)
		}

		fmt.Printf("\n%s\n", result.SetupInstructions)
		fmt.Printf("Credits used: %d\n", result.CreditsUsed)

		if generateSaveDB != "" {
			saveRun(ctx, envConfig, description, result)
		}
	},
}

func saveRun(ctx context.Context, envConfig *config.EnvConfig, request string, result *pipeline.Result) {
	var store database.RunStore = database.NewHandler(envConfig)
	defer store.Close()

	if err := store.EnsureSchema(ctx, generateSaveDB); err != nil {
		log.Printf("Warning: could not prepare run storage: %v", err)
		return
	}

	rec := database.RunRecord{
		Request:     request,
		Model:       generateModel,
		Result:      result,
		CreditsUsed: result.CreditsUsed,
	}
	if err := store.SaveRun(ctx, generateSaveDB, rec); err != nil {
		log.Printf("Warning: could not save run: %v", err)
		return
	}
	fmt.Printf("Run saved to database %q\n", generateSaveDB)
}

func init() {
	generateCmd.Flags().StringVarP(&generateFile, "file", "f", "", "read the request from a file")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "write the workflow JSON to a file")
	generateCmd.Flags().StringVarP(&generateModel, "model", "m", "gpt-4o", "model to use for generation")
	generateCmd.Flags().StringVarP(&generateType, "type", "t", "", "workflow type hint (e.g. sync, notification)")
	generateCmd.Flags().StringSliceVarP(&generateIntegrations, "integrations", "i", nil, "integration hints")
	generateCmd.Flags().IntVar(&generateMaxModules, "max-modules", 0, "cap the number of generated modules (0 = no cap)")
	generateCmd.Flags().StringVar(&generateSaveDB, "save-db", "", "save the completed run to this configured database")
	rootCmd.AddCommand(generateCmd)
}
