package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/nexus/backend/internal/application/trade"
	"github.com/nexus/backend/internal/domain/shared"
	domaintrade "github.com/nexus/backend/internal/domain/trade"
	"github.com/nexus/backend/internal/interfaces/http/dto"
)

// compositeCodec translates the wire shape of a header-with-items resource
type compositeCodec[H any, C any] struct {
	decode func(body []byte) (json.RawMessage, []json.RawMessage, error)
	render func(agg *trade.Aggregate[H, C]) any
}

// CompositeHandler exposes a header-with-items resource such as sales
type CompositeHandler[H any, HP shared.EntityPtr[H], C any, CP shared.ChildPtr[C]] struct {
	BaseHandler
	service *trade.AggregateService[H, HP, C, CP]
	codec   compositeCodec[H, C]
}

// SaleHandler serves /api/sales
type SaleHandler = CompositeHandler[domaintrade.Sale, *domaintrade.Sale, domaintrade.SaleItem, *domaintrade.SaleItem]

// SupplierOrderHandler serves /api/supplier-orders
type SupplierOrderHandler = CompositeHandler[domaintrade.SupplierOrder, *domaintrade.SupplierOrder, domaintrade.SupplierOrderItem, *domaintrade.SupplierOrderItem]

// NewSaleHandler creates a handler reading {saleData, itemsData} and
// answering {sale, items}
func NewSaleHandler(service *trade.SaleService) *SaleHandler {
	return &SaleHandler{
		service: service,
		codec: compositeCodec[domaintrade.Sale, domaintrade.SaleItem]{
			decode: func(body []byte) (json.RawMessage, []json.RawMessage, error) {
				var req dto.SaleRequest
				if err := decodeComposite(body, &req); err != nil {
					return nil, nil, err
				}
				return req.SaleData.Raw(), dto.RawItems(req.ItemsData), nil
			},
			render: func(agg *trade.Aggregate[domaintrade.Sale, domaintrade.SaleItem]) any {
				return dto.SaleResponse{Sale: agg.Header, Items: itemsOrEmpty(agg.Items)}
			},
		},
	}
}

// NewSupplierOrderHandler creates a handler reading {orderData, itemsData}
// and answering {order, items}
func NewSupplierOrderHandler(service *trade.SupplierOrderService) *SupplierOrderHandler {
	return &SupplierOrderHandler{
		service: service,
		codec: compositeCodec[domaintrade.SupplierOrder, domaintrade.SupplierOrderItem]{
			decode: func(body []byte) (json.RawMessage, []json.RawMessage, error) {
				var req dto.SupplierOrderRequest
				if err := decodeComposite(body, &req); err != nil {
					return nil, nil, err
				}
				return req.OrderData.Raw(), dto.RawItems(req.ItemsData), nil
			},
			render: func(agg *trade.Aggregate[domaintrade.SupplierOrder, domaintrade.SupplierOrderItem]) any {
				return dto.SupplierOrderResponse{Order: agg.Header, Items: itemsOrEmpty(agg.Items)}
			},
		},
	}
}

// decodeComposite treats an empty body as an empty request
func decodeComposite(body []byte, req any) error {
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, req); err != nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "Invalid request body: "+err.Error())
	}
	return nil
}

func itemsOrEmpty[C any](items []C) []C {
	if items == nil {
		return []C{}
	}
	return items
}

// List handles GET /api/{resource}
func (h *CompositeHandler[H, HP, C, CP]) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// Get handles GET /api/{resource}/:id and returns the header only
func (h *CompositeHandler[H, HP, C, CP]) Get(c *gin.Context) {
	header, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, header)
}

// Items handles GET /api/{resource}/:id/items
func (h *CompositeHandler[H, HP, C, CP]) Items(c *gin.Context) {
	page, err := h.service.Items(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// Create handles POST /api/{resource}
func (h *CompositeHandler[H, HP, C, CP]) Create(c *gin.Context) {
	header, items, ok := h.decode(c)
	if !ok {
		return
	}
	agg, err := h.service.Create(c.Request.Context(), actor(c), header, items)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, h.codec.render(agg))
}

// Update handles PUT /api/{resource}/:id. The items in the body replace
// every stored item of the header.
func (h *CompositeHandler[H, HP, C, CP]) Update(c *gin.Context) {
	header, items, ok := h.decode(c)
	if !ok {
		return
	}
	agg, err := h.service.Update(c.Request.Context(), actor(c), c.Param("id"), header, items)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.codec.render(agg))
}

// Delete handles DELETE /api/{resource}/:id
func (h *CompositeHandler[H, HP, C, CP]) Delete(c *gin.Context) {
	result, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *CompositeHandler[H, HP, C, CP]) decode(c *gin.Context) (json.RawMessage, []json.RawMessage, bool) {
	body, ok := h.readBody(c)
	if !ok {
		return nil, nil, false
	}
	header, items, err := h.codec.decode(body)
	if err != nil {
		h.HandleError(c, err)
		return nil, nil, false
	}
	return header, items, true
}
