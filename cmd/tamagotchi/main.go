package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sethgrid/tamagotchi/internal/art"
	"github.com/sethgrid/tamagotchi/internal/conditions"
	"github.com/sethgrid/tamagotchi/internal/config"
	"github.com/sethgrid/tamagotchi/internal/discovery"
	"github.com/sethgrid/tamagotchi/internal/ledger"
	"github.com/sethgrid/tamagotchi/internal/logger"
	"github.com/sethgrid/tamagotchi/internal/session"
	"github.com/sethgrid/tamagotchi/internal/storage"
	"github.com/spf13/cobra"
)

var (
	configPath string
)

const Version = "v0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "tamagotchi",
		Short: "Tamagotchi - a fox you keep alive with food tokens",
		Run: func(cmd *cobra.Command, args []string) {
			if version, _ := cmd.Flags().GetBool("version"); version {
				fmt.Println(Version)
				return
			}
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.toml")
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(buyCmd)
	rootCmd.AddCommand(adminCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env is everything a command needs once the pet has been found.
type env struct {
	configPath string
	cfg        config.Config
	ledger     *ledger.Client
}

func loadEnv(ctx context.Context) (*env, error) {
	cwd, _ := os.Getwd()
	path, err := discovery.Resolve(configPath, cwd)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no pet found. Run 'tamagotchi init' to create one")
	}

	cfg, err := storage.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format, nil)

	chain := ledger.NewLocalChain(storage.LedgerFile{Path: storage.LedgerPath(path, cfg)}, nil)
	client, err := ledger.Open(ctx, chain, nil)
	if err != nil {
		return nil, err
	}
	return &env{configPath: path, cfg: cfg, ledger: client}, nil
}

func (e *env) sessionOptions() session.Options {
	return session.Options{
		HomeX:           e.cfg.Pet.HomeX,
		HomeY:           e.cfg.Pet.HomeY,
		Amount:          e.cfg.Ledger.Amount,
		RefreshInterval: e.cfg.Ledger.RefreshInterval.Duration,
	}
}

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a pet in the current directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		global, _ := cmd.Flags().GetBool("global")
		force, _ := cmd.Flags().GetBool("force")

		var baseDir string
		var err error
		if global {
			baseDir, err = os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
		} else {
			baseDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
		}

		var name string
		if len(args) == 1 {
			name = args[0]
		}

		path, err := storage.Init(baseDir, name, time.Now(), force)
		if errors.Is(err, storage.ErrExists) {
			return fmt.Errorf("a pet already lives here. Use --force to start over")
		}
		if err != nil {
			return fmt.Errorf("failed to create pet: %w", err)
		}

		fmt.Printf("Pet created at %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("global", false, "Create the pet in your home directory")
	initCmd.Flags().Bool("force", false, "Overwrite an existing pet")
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show saturation, food balance and mood",
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
		bal, err := e.ledger.FoodBalance(ctx)
		if err != nil {
			return err
		}
		status := conditions.DeriveStatus(sat, "")

		fmt.Printf("%s is %s\n\n", e.cfg.Pet.Name, conditions.FormatConditions(status.AllOrdered))
		if sprite, ok := art.Lookup("fox", status.AllOrdered); ok {
			for _, line := range sprite {
				fmt.Println(line)
			}
			fmt.Println()
		}
		fmt.Printf("saturation: %d%%\n", sat)
		fmt.Printf("food: %d\n", bal)
		return nil
	},
}

var feedCmd = &cobra.Command{
	Use:   "feed [amount]",
	Short: "Send food to your pet",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := loadEnv(ctx)
		if err != nil {
			return err
		}
		amount, err := amountArg(args, e.cfg.Ledger.Amount)
		if err != nil {
			return err
		}

		err = e.ledger.SendFood(ctx, amount)
		switch {
		case errors.Is(err, ledger.ErrNotFeedingTime):
			fmt.Println(session.MsgNotFeedTime)
		case errors.Is(err, ledger.ErrPetStarved):
			fmt.Println(session.MsgStarved)
		case errors.Is(err, ledger.ErrInsufficientFood):
			fmt.Println(session.MsgNoFood)
		case err != nil:
			return err
		default:
			fmt.Printf("Fed %s %d food.\n", e.cfg.Pet.Name, amount)
		}
		return nil
	},
}

var buyCmd = &cobra.Command{
	Use:   "buy [amount]",
	Short: "Buy food with tokens",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := loadEnv(ctx)
		if err != nil {
			return err
		}
		amount, err := amountArg(args, e.cfg.Ledger.Amount)
		if err != nil {
			return err
		}

		if err := e.ledger.BuyFood(ctx, amount); err != nil {
			return err
		}
		bal, err := e.ledger.FoodBalance(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Bought food. Balance: %d\n", bal)
		return nil
	},
}

func amountArg(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("amount must be a positive number, got %q", args[0])
	}
	return n, nil
}
