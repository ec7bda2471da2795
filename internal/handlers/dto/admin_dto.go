package dto

import (
	"time"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// PresignRequest pede uma URL de upload direto
type PresignRequest struct {
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required,oneof=image/jpeg image/png image/webp image/gif"`
}

// UploadResponse representa um arquivo gravado
type UploadResponse struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// ToUploadResponse converte o resultado do upload
func ToUploadResponse(r *services.UploadResult) UploadResponse {
	return UploadResponse{Key: r.Key, URL: r.URL, ContentType: r.ContentType, Size: r.Size}
}

// PresignResponse representa um upload direto autorizado
type PresignResponse struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ToPresignResponse converte o resultado da pré-assinatura
func ToPresignResponse(r *services.PresignResult) PresignResponse {
	return PresignResponse{Key: r.Key, UploadURL: r.UploadURL, PublicURL: r.PublicURL, ExpiresAt: r.ExpiresAt}
}

// DashboardQuery são os parâmetros do painel administrativo
type DashboardQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=365"`
	Top  int `form:"top" binding:"omitempty,min=1,max=50"`
}

// TopProductResponse representa um produto mais vendido
type TopProductResponse struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	UnitsSold int64  `json:"units_sold"`
	Revenue   string `json:"revenue"`
}

// DailyCountResponse representa uma contagem diária
type DailyCountResponse struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// DashboardResponse é o painel administrativo
type DashboardResponse struct {
	Users         int64                `json:"users"`
	Products      int64                `json:"products"`
	Jobs          int64                `json:"jobs"`
	Events        int64                `json:"events"`
	OrdersByState map[string]int64     `json:"orders_by_status"`
	Revenue       string               `json:"revenue"`
	TopProducts   []TopProductResponse `json:"top_products"`
	Signups       []DailyCountResponse `json:"signups"`
}

// ToDashboardResponse converte o painel
func ToDashboardResponse(d *entities.Dashboard) DashboardResponse {
	orders := make(map[string]int64, len(d.OrdersByState))
	for status, count := range d.OrdersByState {
		orders[string(status)] = count
	}
	top := make([]TopProductResponse, len(d.TopProducts))
	for i, p := range d.TopProducts {
		top[i] = TopProductResponse{ProductID: p.ProductID, Title: p.Title, UnitsSold: p.UnitsSold, Revenue: money(p.Revenue)}
	}
	signups := make([]DailyCountResponse, len(d.Signups))
	for i, s := range d.Signups {
		signups[i] = DailyCountResponse{Day: s.Day, Count: s.Count}
	}
	return DashboardResponse{
		Users:         d.Users,
		Products:      d.Products,
		Jobs:          d.Jobs,
		Events:        d.Events,
		OrdersByState: orders,
		Revenue:       money(d.Revenue),
		TopProducts:   top,
		Signups:       signups,
	}
}
