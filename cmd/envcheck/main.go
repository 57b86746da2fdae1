package main

import (
	"fmt"
	"log"
	"os"

	"sitegen-backend/cmd"
	"sitegen-backend/internal/config"
)

// envcheck reports which credentials the service can see and the effective
// tuning knobs, without starting the server. Exit code 1 means at least one
// credential is missing.
func main() {
	cmd.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	fmt.Println("Credentials:")
	ok := true
	for _, cred := range cfg.Credentials() {
		status := "present"
		if !cred.Present {
			status = "MISSING"
			ok = false
		}
		fmt.Printf("  %-16s %-8s %s\n", cred.Name, status, cred.Description)
	}

	fmt.Println("\nSettings:")
	fmt.Printf("  port:                %s\n", cfg.Port)
	fmt.Printf("  github_api_base:     %s\n", cfg.GitHubAPIBase)
	fmt.Printf("  github_user:         %s\n", cfg.GitHubUser)
	fmt.Printf("  llm_model:           %s\n", cfg.LLMModel)
	fmt.Printf("  llm_fallback_model:  %s\n", cfg.LLMFallbackModel)
	fmt.Printf("  notify_max_attempts: %d\n", cfg.NotifyMaxAttempts)
	fmt.Printf("  notify_base_delay:   %s\n", cfg.NotifyBaseDelay)
	fmt.Printf("  pages_poll_interval: %s\n", cfg.PagesPollInterval)
	fmt.Printf("  pages_poll_budget:   %s\n", cfg.PagesPollBudget)
	fmt.Printf("  task_deadline:       %s\n", cfg.TaskDeadline)

	if !ok {
		os.Exit(1)
	}
}
