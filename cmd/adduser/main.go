// cmd/adduser/main.go
// Creates or updates a player in the database and optionally grants
// foundation horses.
//
// Usage:
//
//	go run ./cmd/adduser -username padraic -password testing -starters 2
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/padraicbc/studbook/breeding"
	"github.com/padraicbc/studbook/config"
	bundb "github.com/padraicbc/studbook/db"
	"github.com/padraicbc/studbook/models"
	"github.com/padraicbc/studbook/stats"
)

func main() {
	username := flag.String("username", "", "username (required)")
	password := flag.String("password", "", "plain-text password (required)")
	starters := flag.Int("starters", 0, "number of foundation horses to grant")
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("both -username and -password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("bcrypt:", err)
	}

	ctx := context.Background()
	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatal("create tables:", err)
	}
	store := bundb.NewStore(db)

	player := &models.Player{
		Username:      *username,
		Password:      string(hash),
		Balance:       cfg.StartingBalance,
		FacilityLevel: 1,
	}
	if err := store.UpsertPlayer(ctx, player); err != nil {
		log.Fatal("insert player:", err)
	}
	fmt.Printf("player %q saved (id %d)\n", *username, player.PlayerID)

	eng := breeding.New(nil)
	// Cycle the non-legendary lines so starters can be crossed.
	lines := stats.Bloodlines[:4]
	for i := range *starters {
		horse, err := eng.Foundation("", player.PlayerID, lines[i%len(lines)])
		if err != nil {
			log.Fatal("foundation horse:", err)
		}
		if err := store.InsertHorse(ctx, horse); err != nil {
			log.Fatal("insert horse:", err)
		}
		fmt.Printf("  granted %s (%s, line %s)\n", horse.Name, horse.Rarity, horse.Bloodline)
	}
}
