// Dbtool inspects and maintains the fingerprint database: view survey
// coverage, clean incomplete rows, and manage schema migrations.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/campus-geo/wifi-locate/internal/db"
)

var (
	dbFile        = flag.String("db", "fingerprints.db", "Path to the SQLite database")
	migrationsDir = flag.String("migrations", "migrations", "Path to migration files")
)

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		printHelp()
		os.Exit(1)
	}

	switch args[0] {
	case "view":
		runView()
	case "clean":
		runClean(args[1:])
	case "migrate":
		runMigrate(args[1:])
	case "help":
		printHelp()
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printHelp()
		os.Exit(1)
	}
}

func openDB() *db.DB {
	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return database
}

func runView() {
	database := openDB()
	defer database.Close()

	total, err := database.FingerprintCount()
	if err != nil {
		log.Fatalf("Failed to count fingerprints: %v", err)
	}

	summaries, err := database.RoomSummaries()
	if err != nil {
		log.Fatalf("Failed to load room summaries: %v", err)
	}

	fmt.Printf("=== Fingerprint Database ===\n")
	fmt.Printf("Total samples: %d\n\n", total)
	fmt.Printf("%-12s %-8s %-10s %s\n", "ROOM", "FLOOR", "SAMPLES", "APS")
	for _, s := range summaries {
		fmt.Printf("%-12s %-8s %-10d %d\n", s.Room, s.Floor, s.Samples, s.APs)
	}

	positions, err := database.RecentPositions(10)
	if err != nil {
		log.Fatalf("Failed to load positions: %v", err)
	}
	if len(positions) > 0 {
		fmt.Printf("\n=== Recent Positions ===\n")
		for _, p := range positions {
			if p.Success {
				fmt.Printf("%s  room=%s method=%s confidence=%s aps=%d\n",
					p.Timestamp, p.Room, p.Method, p.Confidence, p.MatchedAPs)
			} else {
				fmt.Printf("%s  FAILED: %s\n", p.Timestamp, p.Error)
			}
		}
	}
}

func runClean(args []string) {
	cleanFlags := flag.NewFlagSet("clean", flag.ExitOnError)
	room := cleanFlags.String("room", "", "Delete all samples for one room")
	all := cleanFlags.Bool("all", false, "Delete every sample")
	cleanFlags.Parse(args)

	database := openDB()
	defer database.Close()

	switch {
	case *all:
		n, err := database.DeleteAll()
		if err != nil {
			log.Fatalf("Failed to delete samples: %v", err)
		}
		fmt.Printf("deleted %d samples\n", n)

	case *room != "":
		n, err := database.DeleteRoom(*room)
		if err != nil {
			log.Fatalf("Failed to delete room %s: %v", *room, err)
		}
		fmt.Printf("deleted %d samples for room %s\n", n, *room)

	default:
		// No target given: prune rows the engine cannot use.
		n, err := database.DeleteIncomplete()
		if err != nil {
			log.Fatalf("Failed to delete incomplete rows: %v", err)
		}
		fmt.Printf("deleted %d incomplete samples\n", n)
	}

	total, err := database.FingerprintCount()
	if err == nil {
		fmt.Printf("%d samples remain\n", total)
	}
}

func runMigrate(args []string) {
	if len(args) < 1 {
		printMigrateHelp()
		os.Exit(1)
	}

	database, err := db.OpenDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	switch args[0] {
	case "up":
		log.Printf("Running migrations...")
		if err := database.MigrateUp(*migrationsDir); err != nil {
			log.Fatalf("Migration up failed: %v", err)
		}
		version, dirty, _ := database.MigrateVersion(*migrationsDir)
		log.Printf("All migrations applied, current version: %d (dirty: %v)", version, dirty)

	case "down":
		log.Printf("Rolling back one migration...")
		if err := database.MigrateDown(*migrationsDir); err != nil {
			log.Fatalf("Migration down failed: %v", err)
		}
		version, dirty, _ := database.MigrateVersion(*migrationsDir)
		log.Printf("Rolled back, current version: %d (dirty: %v)", version, dirty)

	case "status":
		version, dirty, err := database.MigrateVersion(*migrationsDir)
		if err != nil {
			log.Fatalf("Failed to get migration status: %v", err)
		}
		latest, err := db.GetLatestMigrationVersion(*migrationsDir)
		if err != nil {
			log.Fatalf("Failed to get latest migration version: %v", err)
		}
		fmt.Printf("Current version: %d\nLatest available: %d\nDirty: %v\n", version, latest, dirty)
		if dirty {
			fmt.Println("WARNING: database is in a dirty state; run 'dbtool migrate force <version>' after fixing it")
		}

	case "version":
		if len(args) < 2 {
			log.Fatal("Usage: dbtool migrate version <version_number>")
		}
		var target uint
		if _, err := fmt.Sscanf(args[1], "%d", &target); err != nil {
			log.Fatalf("Invalid version number: %s", args[1])
		}
		if err := database.MigrateTo(*migrationsDir, target); err != nil {
			log.Fatalf("Migration to version %d failed: %v", target, err)
		}
		log.Printf("Migrated to version %d", target)

	case "force":
		if len(args) < 2 {
			log.Fatal("Usage: dbtool migrate force <version_number>")
		}
		var target int
		if _, err := fmt.Sscanf(args[1], "%d", &target); err != nil {
			log.Fatalf("Invalid version number: %s", args[1])
		}
		if err := database.MigrateForce(*migrationsDir, target); err != nil {
			log.Fatalf("Force migration failed: %v", err)
		}
		log.Printf("Migration version forced to %d", target)

	default:
		fmt.Printf("Unknown migrate action: %s\n\n", args[0])
		printMigrateHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Fingerprint Database Tool")
	fmt.Println()
	fmt.Println("Usage: dbtool [-db path] <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  view                   Show survey coverage and recent positions")
	fmt.Println("  clean [-room R|-all]   Delete incomplete rows, one room, or everything")
	fmt.Println("  migrate <action>       Manage schema migrations")
	fmt.Println("  help                   Show this help message")
}

func printMigrateHelp() {
	fmt.Println("Usage: dbtool migrate <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  up              Apply all pending migrations")
	fmt.Println("  down            Rollback one migration")
	fmt.Println("  status          Show current migration status and version")
	fmt.Println("  version <N>     Migrate to specific version N")
	fmt.Println("  force <N>       Force migration version to N (recovery only)")
}
