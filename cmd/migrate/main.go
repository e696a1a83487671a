// cmd/migrate/main.go
// Imports players and horses from the legacy MySQL game database into the
// local PostgreSQL database.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/stable?parseTime=true" \
//	DB_PASS="pgpass" \
//	go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"

	"github.com/padraicbc/studbook/config"
	bundb "github.com/padraicbc/studbook/db"
	"github.com/padraicbc/studbook/models"
	"github.com/padraicbc/studbook/stats"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/stable?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}
	log.Println("connected to MySQL")

	// --- PostgreSQL ---
	pgDB := bundb.Setup(cfg)
	defer pgDB.Close()
	log.Println("connected to PostgreSQL")

	if err := bundb.CreateTables(ctx, pgDB); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	steps := []struct {
		name string
		fn   func() (int, error)
	}{
		{"players", func() (int, error) { return migratePlayers(ctx, myDB, pgDB) }},
		{"horses", func() (int, error) { return migrateHorses(ctx, myDB, pgDB, cfg.MaturityMonths) }},
	}

	for _, s := range steps {
		n, err := s.fn()
		if err != nil {
			log.Fatalf("migrate %s: %v", s.name, err)
		}
		log.Printf("%-10s  %d rows migrated", s.name, n)
	}

	resetSequences(ctx, pgDB)
	log.Println("migration complete")
}

// --- helpers ---

func nullInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}

func nullTime(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	return &n.Time
}

// parseRarity accepts legacy tier names in any case and falls back to Common.
func parseRarity(s string) stats.Rarity {
	for _, r := range stats.Rarities {
		if strings.EqualFold(r.String(), strings.TrimSpace(s)) {
			return r
		}
	}
	return stats.Common
}

// parseMarkings reads the legacy JSON array column. Bad data yields no markings.
func parseMarkings(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return nil
	}
	return out
}

// bulkInsert inserts a batch, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, pgDB *bun.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := pgDB.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

// --- per-table migrations ---

func migratePlayers(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		`SELECT id, username, password, balance, facilityLevel, lastCheckIn, checkInStreak
		 FROM users`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Player
	total := 0
	for rows.Next() {
		var (
			r           models.Player
			lastCheckIn sql.NullTime
		)
		if err := rows.Scan(&r.PlayerID, &r.Username, &r.Password, &r.Balance,
			&r.FacilityLevel, &lastCheckIn, &r.CheckInStreak); err != nil {
			return total, err
		}
		r.LastCheckIn = nullTime(lastCheckIn)
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateHorses(ctx context.Context, myDB *sql.DB, pgDB *bun.DB, maturity int) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		`SELECT id, name, ownerId, speed, stamina, agility, temperament, intelligence,
		        bloodline, rarity, generation, ageMonths, fitness, experience, raceCount,
		        coatColor, markings, personality, mareId, stallionId, createdAt
		 FROM horses`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Horse
	total := 0
	for rows.Next() {
		var (
			r           models.Horse
			bloodline   string
			rarity      string
			markings    sql.NullString
			personality sql.NullString
			mareID      sql.NullInt64
			stallionID  sql.NullInt64
		)
		if err := rows.Scan(&r.HorseID, &r.Name, &r.OwnerID,
			&r.Stats.Speed, &r.Stats.Stamina, &r.Stats.Agility, &r.Stats.Temperament, &r.Stats.Intelligence,
			&bloodline, &rarity, &r.Generation, &r.AgeMonths, &r.Fitness, &r.Experience, &r.RaceCount,
			&r.CoatColor, &markings, &personality, &mareID, &stallionID, &r.CreatedAt); err != nil {
			return total, err
		}
		for _, t := range stats.Traits {
			r.Stats.Set(t, r.Stats.Get(t))
		}
		r.Bloodline = stats.Bloodline(bloodline)
		if !r.Bloodline.Valid() {
			return total, fmt.Errorf("horse %d: unknown bloodline %q", r.HorseID, bloodline)
		}
		r.Rarity = parseRarity(rarity)
		r.Fitness = stats.ClampRange(r.Fitness, 0, 100)
		r.CanBreed = r.AgeMonths >= maturity
		r.Markings = parseMarkings(markings)
		r.Personality = personality.String
		r.MareID = nullInt64(mareID)
		r.StallionID = nullInt64(stallionID)

		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

// resetSequences advances each PG sequence to MAX(id) so new inserts don't conflict.
func resetSequences(ctx context.Context, pgDB *bun.DB) {
	seqs := []struct{ seq, table, col string }{
		{"players_player_id_seq", "players", "player_id"},
		{"horses_horse_id_seq", "horses", "horse_id"},
	}
	for _, s := range seqs {
		q := fmt.Sprintf(
			"SELECT setval('%s', COALESCE((SELECT MAX(%s) FROM %s), 1))",
			s.seq, s.col, s.table,
		)
		if _, err := pgDB.ExecContext(ctx, q); err != nil {
			log.Printf("reset seq %s: %v", s.seq, err)
		}
	}
	log.Println("sequences reset")
}
