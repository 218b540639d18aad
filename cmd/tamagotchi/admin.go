package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sethgrid/tamagotchi/internal/anim"
	"github.com/sethgrid/tamagotchi/internal/conditions"
	"github.com/sethgrid/tamagotchi/internal/config"
	"github.com/sethgrid/tamagotchi/internal/discovery"
	"github.com/sethgrid/tamagotchi/internal/storage"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative and debugging commands",
}

var adminTraceCmd = &cobra.Command{
	Use:   "trace <float|feed|reward>",
	Short: "Print the per-tick motion of an animation preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		cwd, _ := os.Getwd()
		if path, err := discovery.Resolve(configPath, cwd); err == nil {
			if loaded, err := storage.LoadConfig(path); err == nil {
				cfg = loaded
			}
		}

		preset, ok := cfg.Preset(args[0])
		if !ok {
			return fmt.Errorf("unknown preset %q", args[0])
		}
		ticks, _ := cmd.Flags().GetInt("ticks")
		trace(os.Stdout, preset.Spec(cfg.Pet.FPS), ticks)
		return nil
	},
}

// trace runs spec from a zero transform and prints one line per tick. Bounded
// specs stop at completion; unbounded ones after limit ticks, or one full
// cycle when limit is not positive.
func trace(w io.Writer, spec anim.Spec, limit int) {
	spec.Start()
	if limit <= 0 {
		if spec.Bounded() {
			limit = spec.MaxLoops*(spec.Duration+1) + 1
		} else {
			limit = 2 * (spec.Duration + 1)
		}
	}

	var tr anim.Transform
	fmt.Fprintf(w, "%5s  %-9s  %9s  %9s  %9s\n", "tick", "result", "x", "y", "rotation")
	for i := 1; i <= limit; i++ {
		r := anim.Advance(&spec, &tr, nil)
		fmt.Fprintf(w, "%5d  %-9s  %9.4f  %9.4f  %9.4f\n", i, r, tr.X, tr.Y, tr.Rotation)
		if r == anim.Completed {
			return
		}
	}
}

func init() {
	adminTraceCmd.Flags().Int("ticks", 0, "Number of ticks to trace (default: until done, or one cycle)")
}

var adminPromptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print a one-glyph saturation indicator for shell prompts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := loadEnv(ctx)
		if err != nil {
			return err
		}
		sat, err := e.ledger.SaturationPercentage(ctx)
		if err != nil {
			return err
		}
		fmt.Print(promptGlyph(sat))
		return nil
	},
}

func promptGlyph(saturation int) string {
	const resetCode = "\033[0m"

	var colorCode string
	switch conditions.Mood(saturation) {
	case conditions.CondFull:
		colorCode = "\033[32m" // green
	case conditions.CondPeckish:
		colorCode = "\033[33m" // yellow
	case conditions.CondHungry:
		colorCode = "\033[38;5;208m" // orange
	default:
		colorCode = "\033[90m" // gray
	}
	return fmt.Sprintf("🦊 %s●%s", colorCode, resetCode)
}

var adminCompletionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for tamagotchi.

Bash:
  $ source <(tamagotchi admin completion bash)

Zsh:
  $ tamagotchi admin completion zsh > "${fpath[1]}/_tamagotchi"

Fish:
  $ tamagotchi admin completion fish | source

PowerShell:
  PS> tamagotchi admin completion powershell | Out-String | Invoke-Expression
`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cmd.Root()
		switch args[0] {
		case "bash":
			return root.GenBashCompletion(os.Stdout)
		case "zsh":
			return root.GenZshCompletion(os.Stdout)
		case "fish":
			return root.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return root.GenPowerShellCompletion(os.Stdout)
		}
		return fmt.Errorf("unsupported shell: %s", args[0])
	},
}

func init() {
	adminCmd.AddCommand(adminTraceCmd)
	adminCmd.AddCommand(adminPromptCmd)
	adminCmd.AddCommand(adminCompletionCmd)
}
