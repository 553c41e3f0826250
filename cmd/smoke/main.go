// smoke recorre el flujo completo contra un servidor levantado:
// fundación + mascota, adoptante + like, accept, cita y chat.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"pet-adoption-match/internal/platform/httpclient"
	"pet-adoption-match/internal/platform/logger"
)

type session struct {
	Token string `json:"token"`
	User  struct {
		ID string `json:"id"`
	} `json:"user"`
}

type idOnly struct {
	ID string `json:"id"`
}

type matchOut struct {
	ID         string  `json:"id"`
	MatchScore float64 `json:"match_score"`
	IsMatch    bool    `json:"is_match"`
	Status     string  `json:"status"`
}

func main() {
	base := flag.String("base", envOr("SMOKE_BASE_URL", "http://localhost:8080"), "base URL incluyendo el prefijo (p.ej. http://localhost:8080/api)")
	timeout := flag.Duration("timeout", 30*time.Second, "timeout total")
	flag.Parse()

	log := logger.NewFromEnv().With(map[string]any{"component": "smoke"})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, *base, log); err != nil {
		log.Error("smoke failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	log.Info("smoke ok", nil)
}

func run(ctx context.Context, base string, log logger.Logger) error {
	api, err := httpclient.New(base, 0)
	if err != nil {
		return err
	}

	suffix := time.Now().UnixNano()
	traits := map[string]int{"playful": 8, "calm": 6, "energetic": 7, "friendly": 9, "independent": 5, "social": 8}

	var fnd session
	if err := api.DoJSON(ctx, http.MethodPost, "/auth/register", map[string]any{
		"email": fmt.Sprintf("refugio-%d@smoke.test", suffix), "password": "smoke-pass",
		"name": "Refugio Smoke", "age": 30, "user_type": "foundation",
	}, &fnd); err != nil {
		return fmt.Errorf("register foundation: %w", err)
	}
	foundation := api.WithToken(fnd.Token)

	var pet idOnly
	if err := foundation.DoJSON(ctx, http.MethodPost, "/pets", map[string]any{
		"name": "Milo", "breed": "mixed", "age": 3, "personality_traits": traits,
	}, &pet); err != nil {
		return fmt.Errorf("create pet: %w", err)
	}
	log.Info("pet created", map[string]any{"pet_id": pet.ID})

	var adp session
	if err := api.DoJSON(ctx, http.MethodPost, "/auth/register", map[string]any{
		"email": fmt.Sprintf("ana-%d@smoke.test", suffix), "password": "smoke-pass",
		"name": "Ana Smoke", "age": 25, "user_type": "adopter", "personality_traits": traits,
	}, &adp); err != nil {
		return fmt.Errorf("register adopter: %w", err)
	}
	adopter := api.WithToken(adp.Token)

	var m matchOut
	if err := adopter.DoJSON(ctx, http.MethodPost, "/matches/like", map[string]any{
		"pet_id": pet.ID, "action": "like",
	}, &m); err != nil {
		return fmt.Errorf("like: %w", err)
	}
	if !m.IsMatch || m.MatchScore != 100 {
		return fmt.Errorf("like: expected perfect match, got score=%.2f is_match=%v", m.MatchScore, m.IsMatch)
	}
	log.Info("match created", map[string]any{"match_id": m.ID, "score": m.MatchScore})

	err = adopter.DoJSON(ctx, http.MethodPost, "/matches/like", map[string]any{"pet_id": pet.ID, "action": "like"}, nil)
	if httpclient.StatusOf(err) != http.StatusBadRequest {
		return fmt.Errorf("duplicate like: expected 400, got %v", err)
	}

	var accepted struct {
		Match matchOut `json:"match"`
	}
	if err := foundation.DoJSON(ctx, http.MethodPut, "/matches/"+m.ID+"/accept", nil, &accepted); err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	if accepted.Match.Status != "accepted" {
		return fmt.Errorf("accept: unexpected status %q", accepted.Match.Status)
	}

	var appt idOnly
	if err := adopter.DoJSON(ctx, http.MethodPost, "/appointments", map[string]any{
		"match_id": m.ID, "date": time.Now().AddDate(0, 0, 7).Format("2006-01-02"), "time": "10:30",
	}, &appt); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	log.Info("appointment created", map[string]any{"appointment_id": appt.ID})

	if err := adopter.DoJSON(ctx, http.MethodPost, "/chat/"+m.ID+"/messages", map[string]any{"message": "Hola, ¿podemos visitarlo?"}, nil); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	var chat struct {
		Messages []struct {
			SenderType string `json:"sender_type"`
		} `json:"messages"`
	}
	if err := foundation.DoJSON(ctx, http.MethodGet, "/chat/"+m.ID, nil, &chat); err != nil {
		return fmt.Errorf("get chat: %w", err)
	}
	if len(chat.Messages) != 1 || chat.Messages[0].SenderType != "user" {
		return fmt.Errorf("get chat: unexpected messages %+v", chat.Messages)
	}

	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
