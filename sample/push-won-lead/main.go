// Command push-won-lead sends one fake won deal to Kommo so the CRM
// credentials can be checked by hand.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/kommo"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
)

func main() {
	email := flag.String("email", "joao.teste@example.com", "contact email")
	value := flag.Float64("value", 1990, "deal value")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env not found, using process environment")
	}

	token := os.Getenv("KOMMO_API_TOKEN")
	if token == "" {
		logrus.Fatal("KOMMO_API_TOKEN must be set")
	}
	client := kommo.NewClient(token, os.Getenv("KOMMO_BASE_URL"))

	lead := &entity.Lead{
		ID:        "sample-" + time.Now().UTC().Format("20060102150405"),
		FirstName: "Joao",
		LastName:  "Teste",
		Email:     *email,
		Phone:     "+556199767638",
		Company:   "Sample Co",
		Stage:     entity.StageWon,
		Value:     *value,
	}
	event := queue.NewLeadEvent(queue.EventLeadStageChanged, lead)
	event.PreviousStage = entity.StageNegotiation

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	id, err := client.PushWonLead(ctx, event)
	if err != nil {
		logrus.WithError(err).Fatal("push to Kommo failed")
	}
	fmt.Printf("Kommo lead #%d created for %s (%.2f)\n", id, event.Name, event.Value)
}
