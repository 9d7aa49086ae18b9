package twelvedata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"papertrade_backend/internal/feature/market/domain/entity"
	"papertrade_backend/internal/feature/market/usecase"
	"papertrade_backend/internal/platform/externalapi/twelvedata/dto"
)

// TwelveDataMarket はTwelve Data外部APIから価格履歴と銘柄情報を取得するQuoteProvider実装です。
type TwelveDataMarket struct {
	cfg    Config
	client *http.Client
}

// TwelveDataMarketがQuoteProviderを実装していることをコンパイル時に検証します。
var _ usecase.QuoteProvider = (*TwelveDataMarket)(nil)

// NewTwelveDataMarket は指定された設定とHTTPクライアントでTwelveDataMarketの新しいインスタンスを生成します。
func NewTwelveDataMarket(cfg Config, client *http.Client) *TwelveDataMarket {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Interval == "" {
		cfg.Interval = "1day"
	}
	return &TwelveDataMarket{cfg: cfg, client: client}
}

// FetchSeries は複数ティッカーの直近window本のバーを1回のリクエストで取得します。
// 戻り値のバーは古い順です。個別ティッカーのエラーや欠損はマップから除外され、
// 数値として解釈できない値はNaNになります。リクエスト全体の失敗のみエラーを返します。
func (t *TwelveDataMarket) FetchSeries(ctx context.Context, tickers []string, window int) (map[string]entity.Series, error) {
	out := make(map[string]entity.Series, len(tickers))
	if len(tickers) == 0 {
		return out, nil
	}

	q := url.Values{}
	q.Set("symbol", strings.Join(tickers, ","))
	q.Set("interval", t.cfg.Interval)
	q.Set("outputsize", strconv.Itoa(window))

	body, err := t.get(ctx, "time_series", q)
	if err != nil {
		return nil, err
	}
	if err := checkEnvelope(body); err != nil {
		return nil, err
	}

	// 1銘柄の場合はシリーズそのもの、複数銘柄の場合はティッカーをキーとするオブジェクトが返る
	if len(tickers) == 1 {
		var res dto.TimeSeriesResponse
		if err := json.Unmarshal(body, &res); err != nil {
			return nil, fmt.Errorf("decode time_series: %w", err)
		}
		if s, ok := toSeries(tickers[0], res); ok {
			out[tickers[0]] = s
		}
		return out, nil
	}

	var batch map[string]json.RawMessage
	if err := json.Unmarshal(body, &batch); err != nil {
		return nil, fmt.Errorf("decode time_series batch: %w", err)
	}
	for _, ticker := range tickers {
		raw, ok := batch[ticker]
		if !ok {
			continue
		}
		var res dto.TimeSeriesResponse
		if err := json.Unmarshal(raw, &res); err != nil {
			slog.Warn("malformed time_series entry", "ticker", ticker, "error", err)
			continue
		}
		if s, ok := toSeries(ticker, res); ok {
			out[ticker] = s
		}
	}
	return out, nil
}

// FetchProfile は銘柄名・セクターとベータ値を取得します。
// ベータ値の取得失敗はエラーにせず0（不明）として扱います。
func (t *TwelveDataMarket) FetchProfile(ctx context.Context, ticker string) (entity.Profile, error) {
	q := url.Values{}
	q.Set("symbol", ticker)

	body, err := t.get(ctx, "profile", q)
	if err != nil {
		return entity.Profile{}, err
	}
	if err := checkEnvelope(body); err != nil {
		return entity.Profile{}, err
	}
	var prof dto.ProfileResponse
	if err := json.Unmarshal(body, &prof); err != nil {
		return entity.Profile{}, fmt.Errorf("decode profile: %w", err)
	}

	p := entity.Profile{Name: prof.Name, Sector: prof.Sector}
	beta, err := t.fetchBeta(ctx, ticker)
	if err != nil {
		slog.Warn("beta lookup failed", "ticker", ticker, "error", err)
	}
	p.Beta = beta
	return p, nil
}

func (t *TwelveDataMarket) fetchBeta(ctx context.Context, ticker string) (float64, error) {
	q := url.Values{}
	q.Set("symbol", ticker)

	body, err := t.get(ctx, "statistics", q)
	if err != nil {
		return 0, err
	}
	if err := checkEnvelope(body); err != nil {
		return 0, err
	}
	var stats dto.StatisticsResponse
	if err := json.Unmarshal(body, &stats); err != nil {
		return 0, fmt.Errorf("decode statistics: %w", err)
	}
	if b := stats.Statistics.StockPriceSummary.Beta; b != nil {
		return *b, nil
	}
	return 0, nil
}

// get はエンドポイントを呼び出し、レスポンスボディを返します。
func (t *TwelveDataMarket) get(ctx context.Context, endpoint string, q url.Values) ([]byte, error) {
	q.Set("apikey", t.cfg.TwelveDataAPIKey)
	u := fmt.Sprintf("%s/%s?%s", strings.TrimRight(t.cfg.BaseURL, "/"), endpoint, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	res, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("twelvedata http %d", res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}
	return body, nil
}

// checkEnvelope はリクエスト全体のエラー（APIキー不正、レート超過など）を検出します。
func checkEnvelope(body []byte) error {
	if !bytes.Contains(body, []byte(`"status"`)) {
		return nil
	}
	var env dto.ErrorResponse
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if env.Status == "error" {
		return fmt.Errorf("twelvedata: %s (code %d)", env.Message, env.Code)
	}
	return nil
}

// toSeries converts a response to a series ordered oldest first.
// The second result is false when the entry reports an error.
func toSeries(ticker string, res dto.TimeSeriesResponse) (entity.Series, bool) {
	if res.Status == "error" {
		slog.Warn("twelvedata ticker error", "ticker", ticker, "code", res.Code, "message", res.Message)
		return entity.Series{}, false
	}
	bars := make([]entity.Bar, 0, len(res.Values))
	for _, v := range res.Values {
		bars = append(bars, entity.Bar{
			Time:  parseTime(v.Datetime),
			Open:  parseNumber(v.Open),
			Close: parseNumber(v.Close),
		})
	}
	slices.Reverse(bars)
	return entity.Series{Ticker: ticker, AssetType: res.Meta.Type, Bars: bars}, true
}

// parseNumber parses a numeric string, returning NaN when it is missing or malformed.
func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func parseTime(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		if tm, err := time.Parse(layout, s); err == nil {
			return tm
		}
	}
	return time.Time{}
}
