package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"note-board/internal/clients/boardapi"
	"note-board/internal/services/notes"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	baseURL = flag.String("url", env("API_BASE_URL", "http://localhost:8080"), "Server base URL")
	secret  = flag.String("secret", os.Getenv("JWT_SECRET"), "JWT secret of the server, empty when auth is off")
	nNotes  = flag.Int("n", envInt("COUNT", 50), "How many notes to create")
	seed    = flag.Int64("seed", 0, "Random seed, 0 picks one from the clock")
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return def
}

func main() {
	flag.Parse()
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(*seed)

	var opts []boardapi.Option
	if *secret != "" {
		token, err := boardapi.SignToken(*secret, "seed", time.Hour)
		if err != nil {
			fmt.Fprintln(os.Stderr, "FATAL:", err)
			os.Exit(1)
		}
		opts = append(opts, boardapi.WithToken(token))
	}
	client := boardapi.New(*baseURL, opts...)

	fmt.Printf("Seeding %d notes on %s (seed=%d)\n", *nNotes, *baseURL, *seed)

	if err := createNotes(context.Background(), client, faker, *nNotes); err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}

	fmt.Println("✔ done")
}

// fakeNote builds a random note; about one in three gets no color.
func fakeNote(faker *gofakeit.Faker) notes.CreateNoteRequest {
	req := notes.CreateNoteRequest{
		Title: faker.Sentence(3),
		Body:  faker.Paragraph(1, 3, 12, "\n"),
	}
	palette := notes.Palette()
	if faker.Number(0, 2) > 0 {
		req.Color = string(palette[faker.Number(1, len(palette)-1)].Name)
	}
	return req
}

func createNotes(ctx context.Context, client *boardapi.Client, faker *gofakeit.Faker, total int) error {
	for i := 1; i <= total; i++ {
		if _, err := client.CreateNote(ctx, fakeNote(faker)); err != nil {
			return fmt.Errorf("create note %d: %w", i, err)
		}

		if i%10 == 0 || i == total {
			fmt.Printf("  … %d/%d\n", i, total)
		}
	}
	return nil
}
