package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	"blogledger/keygen"
)

var osExit = os.Exit

var createBackupFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// HandleCommand handles blog ledger subcommands and returns an exit code.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		printHelp()
		osExit(1)
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "serve":
		return RunAppServer(args[1:])
	case "clean":
		return clean(args[1:])
	case "init":
		return initDb(args[1:])
	case "backup":
		return backup(args[1:])
	case "restore":
		return restore(args[1:])
	case "keygen":
		return generateKey(args[1:])
	case "help":
		printHelp()
		return 0
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		printHelp()
		osExit(1)
		return 1
	}
}

// printHelp prints help for the subcommands.
func printHelp() {
	helpText := `Usage: blogledger <command> [options]

Commands:
  serve                           Run the blog ledger HTTP service
  init                            Initialize a new empty database
  clean                           Remove the database
  backup                          Create a backup of the database
  restore <file>                  Restore database from backup
  keygen [--prefix p] [--save]    Generate an author keypair
  keygen --show <file>            Print the identity of a saved key
  help                            Display this help message
  version                         Show version information

Options (all commands):
  --config <file>                 YAML config file (or BLOGLEDGER_CONFIG)
  --data-dir <dir>                Badger data directory (default data/badger)
  --listen <addr>                 HTTP listen address (default :8080)
  --log-level <level>             Log level (default info)
  --cache <none|memory|redis>     Record cache backend (default none)
`
	fmt.Println(helpText)
}

// clean removes the database.
func clean(args []string) int {
	cfg, err := loadConfig(newFlagSet("clean"), args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	if _, err := os.Stat(cfg.DataDir); os.IsNotExist(err) {
		fmt.Println("Database is already clean (does not exist)")
		return 0
	}

	if !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Println("Operation cancelled")
		return 1
	}

	if err := os.RemoveAll(cfg.DataDir); err != nil {
		fmt.Printf("Failed to clean database: %v\n", err)
		return 1
	}
	fmt.Println("Database cleaned successfully")
	return 0
}

// initDb initializes a new empty database.
func initDb(args []string) int {
	cfg, err := loadConfig(newFlagSet("init"), args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	if _, err := os.Stat(cfg.DataDir); err == nil {
		fmt.Println("Database already exists. Use 'clean' first if you want to reinitialize.")
		return 1
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		fmt.Printf("Failed to create database directory: %v\n", err)
		return 1
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Printf("Failed to initialize database: %v\n", err)
		return 1
	}
	defer store.Close()

	fmt.Println("Database initialized successfully")
	return 0
}

// backup creates a backup of the database.
func backup(args []string) int {
	cfg, err := loadConfig(newFlagSet("backup"), args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	if _, err := os.Stat(cfg.DataDir); os.IsNotExist(err) {
		fmt.Println("No database exists to backup")
		return 1
	}

	backupDir := siblingDir(cfg, "backups")
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		fmt.Printf("Failed to create backup directory: %v\n", err)
		return 1
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	backupFile := filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := createBackupFile(backupFile)
	if err != nil {
		fmt.Printf("Failed to create backup file: %v\n", err)
		return 1
	}

	if _, err := store.Backup(f); err != nil {
		f.Close()
		fmt.Printf("Failed to backup database: %v\n", err)
		return 1
	}
	if err := f.Close(); err != nil {
		fmt.Printf("Failed to write backup file: %v\n", err)
		return 1
	}

	fmt.Printf("Database backed up successfully to %s\n", backupFile)
	return 0
}

// restore restores the database from a backup.
func restore(args []string) int {
	fs := newFlagSet("restore")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	if fs.NArg() < 1 {
		fmt.Println("Error: backup file path required for restore")
		osExit(1)
		return 1
	}
	backupFile := fs.Arg(0)

	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if err != nil {
		fmt.Printf("Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Printf("Backup file is empty: %s\n", backupFile)
		return 1
	}

	if _, err := os.Stat(cfg.DataDir); err == nil {
		if !confirm("Existing database found. Do you want to replace it?") {
			fmt.Println("Operation cancelled")
			return 1
		}
		if err := os.RemoveAll(cfg.DataDir); err != nil {
			fmt.Printf("Failed to remove existing database: %v\n", err)
			return 1
		}
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		fmt.Printf("Failed to create database directory: %v\n", err)
		return 1
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		fmt.Printf("Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if err := store.Load(f); err != nil {
		fmt.Printf("Failed to restore database: %v\n", err)
		return 1
	}

	fmt.Println("Database restored successfully")
	return 0
}

// generateKey generates an author keypair, optionally grinding for a prefix.
func generateKey(args []string) int {
	fs := newFlagSet("keygen")
	prefix := fs.String("prefix", "", "identity prefix to search for (base32, lowercase)")
	workers := fs.Int("workers", runtime.NumCPU(), "number of parallel workers")
	save := fs.Bool("save", false, "save the generated key under the keys directory")
	name := fs.String("name", "default", "key name used with --save")
	show := fs.String("show", "", "print the identity stored in a saved key file")

	cfg, err := loadConfig(fs, args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	if *show != "" {
		key, err := keygen.Load(*show)
		if err != nil {
			fmt.Printf("Failed to load key: %v\n", err)
			return 1
		}
		fmt.Printf("Identity: %s\n", key.Identity)
		fmt.Printf("Blog address: %s\n", key.Blog())
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	key, err := keygen.Generate(ctx, keygen.Options{Prefix: *prefix, Workers: *workers})
	if err != nil {
		fmt.Printf("Failed to generate key: %v\n", err)
		return 1
	}

	fmt.Printf("Identity: %s\n", key.Identity)
	fmt.Printf("Blog address: %s\n", key.Blog())
	fmt.Printf("Total attempts: %d\n", key.Attempts)

	if !*save {
		fmt.Printf("Private key seed (hex): %x\n", key.PrivateKey.Seed())
		return 0
	}

	path, err := keygen.Save(siblingDir(cfg, "keys"), *name, key)
	if err != nil {
		fmt.Printf("Failed to save key: %v\n", err)
		return 1
	}
	fmt.Printf("Key saved to: %s\n", path)
	return 0
}
