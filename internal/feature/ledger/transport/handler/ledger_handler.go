package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"papertrade_backend/internal/feature/ledger/domain/entity"
	"papertrade_backend/internal/feature/ledger/transport/http/dto"
	"papertrade_backend/internal/platform/http/handler"
	"papertrade_backend/internal/shared/apperr"
)

// AccountUsecase は口座参照のユースケースです。
type AccountUsecase interface {
	GetOrCreate(ctx context.Context, id string) (*entity.Account, error)
}

// TradeUsecase は注文執行のユースケースです。
type TradeUsecase interface {
	Execute(ctx context.Context, order entity.TradeOrder) (*entity.Account, error)
}

// LeaderboardUsecase はランキング計算のユースケースです。
type LeaderboardUsecase interface {
	Rank(ctx context.Context) ([]entity.Ranking, error)
}

// LedgerHandler は口座・売買・ランキングのHTTPリクエストを処理します。
type LedgerHandler struct {
	accounts AccountUsecase
	trades   TradeUsecase
	board    LeaderboardUsecase
}

// NewLedgerHandler は新しい LedgerHandler を作成します。
func NewLedgerHandler(accounts AccountUsecase, trades TradeUsecase, board LeaderboardUsecase) *LedgerHandler {
	return &LedgerHandler{accounts: accounts, trades: trades, board: board}
}

// Trade は売買注文を執行し、更新後の口座を返します。
func (h *LedgerHandler) Trade(c *gin.Context) {
	var req dto.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteError(c, apperr.Wrap(apperr.ErrValidation, err))
		return
	}

	acct, err := h.trades.Execute(c.Request.Context(), entity.TradeOrder{
		UserID:   req.Legajo,
		Symbol:   req.Asset,
		Quantity: req.Quantity,
		Side:     entity.Side(req.Type),
	})
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TradeResponse{Status: "success", UserData: dto.NewUserData(acct)})
}

// Leaderboard はROI順のランキングを返します。
func (h *LedgerHandler) Leaderboard(c *gin.Context) {
	ranks, err := h.board.Rank(c.Request.Context())
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	out := make([]dto.RankingItem, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, dto.RankingItem{Legajo: r.UserID, Total: r.Total, ROI: r.ROI})
	}
	c.JSON(http.StatusOK, out)
}

// GetUser は口座を返します。初回アクセス時は口座を作成します（ログイン相当）。
func (h *LedgerHandler) GetUser(c *gin.Context) {
	acct, err := h.accounts.GetOrCreate(c.Request.Context(), c.Param("legajo"))
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserData(acct))
}
