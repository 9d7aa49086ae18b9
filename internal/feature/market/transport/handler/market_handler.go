package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"papertrade_backend/internal/feature/market/domain/entity"
	"papertrade_backend/internal/feature/market/transport/http/dto"
	"papertrade_backend/internal/feature/market/usecase"
	"papertrade_backend/internal/platform/http/handler"
	"papertrade_backend/internal/shared/apperr"
)

// BoardUsecase は盤面の価格一覧と銘柄一覧を提供するユースケースのインターフェースです。
type BoardUsecase interface {
	ListBoard(ctx context.Context) ([]usecase.BoardItem, error)
	ListSymbols(ctx context.Context) ([]entity.Metadata, error)
}

// AdmissionUsecase は銘柄の追加・削除を行うユースケースのインターフェースです。
type AdmissionUsecase interface {
	Admit(ctx context.Context, symbol string) (*entity.Metadata, error)
	Delist(ctx context.Context, symbol string) error
}

// MarketHandler は盤面に関するHTTPリクエストを処理します。
type MarketHandler struct {
	board     BoardUsecase
	admission AdmissionUsecase
}

// NewMarketHandler は新しい MarketHandler を作成します。
func NewMarketHandler(board BoardUsecase, admission AdmissionUsecase) *MarketHandler {
	return &MarketHandler{board: board, admission: admission}
}

// MarketData は表示中の銘柄の価格を銘柄コードをキーとするマップで返します。
// 保有のみの（上場廃止済み）銘柄は含みません。
func (h *MarketHandler) MarketData(c *gin.Context) {
	items, err := h.board.ListBoard(c.Request.Context())
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	out := make(map[string]dto.AssetData, len(items))
	for _, it := range items {
		out[it.Symbol] = dto.AssetData{
			Name:          it.Name,
			Price:         it.Price,
			ChangePercent: it.ChangePercent,
			Volatility:    it.Volatility,
			Sector:        it.Sector,
		}
	}
	c.JSON(http.StatusOK, out)
}

// Symbols は表示中の銘柄を盤面の並び順で返します。
func (h *MarketHandler) Symbols(c *gin.Context) {
	list, err := h.board.ListSymbols(c.Request.Context())
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	out := make([]dto.SymbolItem, 0, len(list))
	for _, md := range list {
		out = append(out, dto.SymbolItem{Code: md.Symbol, Name: md.Name, Sector: md.Sector, Volatility: md.Volatility})
	}
	c.JSON(http.StatusOK, out)
}

// Admit は銘柄を盤面に追加します。成功時は201と保存されたメタデータを返します。
func (h *MarketHandler) Admit(c *gin.Context) {
	var req dto.AdmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteError(c, apperr.Wrap(apperr.ErrValidation, err))
		return
	}
	md, err := h.admission.Admit(c.Request.Context(), req.Symbol)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SymbolItem{Code: md.Symbol, Name: md.Name, Sector: md.Sector, Volatility: md.Volatility})
}

// Delist は銘柄を盤面から外します。
func (h *MarketHandler) Delist(c *gin.Context) {
	if err := h.admission.Delist(c.Request.Context(), c.Param("symbol")); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
