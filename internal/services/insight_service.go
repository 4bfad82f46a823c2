package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sony/gobreaker/v2"

	"plenapos/internal/config"
	"plenapos/internal/domain"
	applog "plenapos/internal/log"
	"plenapos/internal/repos"
	"plenapos/internal/report"
)

// Messages returned instead of an answer when the model cannot be reached.
const (
	InsightNoKey    = "Chave de API não configurada. Adicione a variável de ambiente API_KEY para ativar o Assistente Inteligente Plena."
	InsightEmpty    = "Não foi possível gerar insights no momento."
	InsightFailed   = "Erro ao conectar com o assistente inteligente. Verifique sua conexão."
	InsightRecentN  = 100
	insightBreakerN = 3
)

const insightPrompt = `Você é um especialista em gestão de varejo para pequenas distribuidoras de bebidas no Brasil.
Analise os seguintes dados recentes da loja e forneça 3 sugestões táticas curtas e diretas para o dono aumentar o lucro ou melhorar a gestão.

Dados da Loja (Resumo JSON):
%s

Formato da resposta:
Use Markdown. Seja direto. Fale a linguagem do comerciante brasileiro.
Não use introduções longas.`

type InsightService struct {
	Catalog  *repos.CatalogRepo
	Ledger   *repos.LedgerRepo
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
	cb       *gobreaker.CircuitBreaker[string]
}

func NewInsightService(cfg config.Config, catalog *repos.CatalogRepo, ledger *repos.LedgerRepo) *InsightService {
	return &InsightService{
		Catalog:  catalog,
		Ledger:   ledger,
		APIKey:   cfg.APIKey,
		Model:    cfg.AIModel,
		Endpoint: strings.TrimRight(cfg.AIEndpoint, "/"),
		Timeout:  cfg.AITimeout,
		cb: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:        "insights",
			MaxRequests: 1,
			Timeout:     time.Minute,
			ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= insightBreakerN },
		}),
	}
}

type insightTx struct {
	Total float64 `json:"total"`
	Items string  `json:"items"`
	Date  string  `json:"date"`
}

// InsightSummary is the store digest sent to the model.
type InsightSummary struct {
	TotalSalesCount    int         `json:"totalSalesCount"`
	RecentTransactions []insightTx `json:"recentTransactions"`
	LowStockAlerts     []string    `json:"lowStockAlerts"`
}

func BuildInsightSummary(products []domain.Product, sales []domain.Sale) InsightSummary {
	sum := InsightSummary{TotalSalesCount: len(sales), RecentTransactions: []insightTx{}, LowStockAlerts: []string{}}
	for _, s := range report.RecentFirst(sales, InsightRecentN) {
		parts := make([]string, 0, len(s.Items))
		for _, it := range s.Items {
			parts = append(parts, fmt.Sprintf("%dx %s", it.Quantity, it.Name))
		}
		sum.RecentTransactions = append(sum.RecentTransactions, insightTx{Total: s.Total, Items: strings.Join(parts, ", "), Date: s.Date})
	}
	for _, p := range report.LowStock(products) {
		sum.LowStockAlerts = append(sum.LowStockAlerts, p.Name)
	}
	return sum
}

type genPart struct {
	Text string `json:"text"`
}

type genContent struct {
	Parts []genPart `json:"parts"`
}

type genRequest struct {
	Contents []genContent `json:"contents"`
}

type genResponse struct {
	Candidates []struct {
		Content genContent `json:"content"`
	} `json:"candidates"`
}

// Generate asks the model for advice. Failures never surface as errors: the
// caller always gets text, either the model's or one of the fallback messages.
// The error return is reserved for storage failures.
func (s *InsightService) Generate(ctx context.Context) (string, error) {
	if s.APIKey == "" {
		return InsightNoKey, nil
	}
	products, err := s.Catalog.List(ctx)
	if err != nil {
		return "", err
	}
	sales, err := s.Ledger.List(ctx)
	if err != nil {
		return "", err
	}
	digest, err := json.Marshal(BuildInsightSummary(products, sales))
	if err != nil {
		return "", err
	}

	text, err := s.cb.Execute(func() (string, error) { return s.call(fmt.Sprintf(insightPrompt, digest)) })
	switch {
	case err == nil && strings.TrimSpace(text) == "":
		return InsightEmpty, nil
	case err == nil:
		return text, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		applog.Warn(nil, "insights.breaker_open", nil)
		return InsightFailed, nil
	default:
		applog.Error(nil, "insights.call", err, map[string]any{"model": s.Model})
		return InsightFailed, nil
	}
}

func (s *InsightService) call(prompt string) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent", s.Endpoint, s.Model)
	a := fiber.Post(url).
		Set("x-goog-api-key", s.APIKey).
		JSON(genRequest{Contents: []genContent{{Parts: []genPart{{Text: prompt}}}}}).
		Timeout(s.Timeout)
	if err := a.Parse(); err != nil {
		return "", err
	}

	var resp genResponse
	code, body, errs := a.Struct(&resp)
	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	if code != fiber.StatusOK {
		return "", fmt.Errorf("model api status %d: %.200s", code, body)
	}
	if len(resp.Candidates) == 0 {
		return "", nil
	}
	var out strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		out.WriteString(p.Text)
	}
	return out.String(), nil
}
