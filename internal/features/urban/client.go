// Package urban — клиент Urban Dictionary.
// client.go ходит во внешний API; любая его ошибка — не повод ронять
// обработчик, наверх уходит обычная error.
package urban

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"serotonyl.ru/karma-bot/internal/common"
)

const defaultBaseURL = "https://api.urbandictionary.com/v0"

// Definition — одно определение из ответа API.
type Definition struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Example    string `json:"example"`
	ThumbsUp   int    `json:"thumbs_up"`
	ThumbsDown int    `json:"thumbs_down"`
}

type defineResponse struct {
	List []Definition `json:"list"`
}

// Client ходит в Urban Dictionary API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создаёт клиент с таймаутом на запрос.
// Ретраев нет: каждый запрос выполняется один раз.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
	}
}

// NewClientWithBaseURL — как NewClient, но с другим адресом API.
// Используется тестами с httptest-сервером.
func NewClientWithBaseURL(timeout time.Duration, baseURL string) *Client {
	c := NewClient(timeout)
	c.baseURL = baseURL
	return c
}

// Define возвращает первое определение термина.
// Пустой список определений — common.ErrNoDefinition.
func (c *Client) Define(ctx context.Context, term string) (*Definition, error) {
	endpoint := fmt.Sprintf("%s/define?term=%s", c.baseURL, url.QueryEscape(term))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("создание запроса: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("запрос к Urban Dictionary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Urban Dictionary ответил %d", resp.StatusCode)
	}

	var parsed defineResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("разбор ответа: %w", err)
	}
	if len(parsed.List) == 0 {
		return nil, common.ErrNoDefinition
	}
	return &parsed.List[0], nil
}
