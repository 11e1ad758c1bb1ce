package analyses

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"avatar-backend/internal/avatar"
	"avatar-backend/internal/shared/server/respond"
)

// defaultNiches seeds the niche picker before any analysis is stored.
var defaultNiches = []string{
	"Marketing Digital",
	"Neuroeducação",
	"Fitness",
	"Desenvolvimento Pessoal",
	"Finanças",
	"Saúde",
	"Educação Online",
	"Consultoria Empresarial",
}

// SystemInfo describes the wiring reported by the status endpoint.
type SystemInfo struct {
	LLMConfigured     bool
	LLMModel          string
	DatabaseAvailable bool
	SearchProvider    string
}

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc  *Service
	Info SystemInfo
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, info SystemInfo) *Handler {
	return &Handler{Svc: svc, Info: info}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
	rg.GET("/analyses", h.listAnalyses)
	rg.GET("/analyses/:id", h.getAnalysis)
	rg.GET("/nichos", h.listNiches)
	rg.GET("/status", h.status)
}

// NumberField accepts a JSON number, a numeric string, or null. Front-end
// forms post prices as strings, so strict typing here would reject real
// traffic; a value that parses as neither is treated as absent.
type NumberField struct {
	Value *float64
}

func (f *NumberField) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.TrimSpace(strings.Trim(s, `"`))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	f.Value = &v
	return nil
}

type analyzeRequest struct {
	Nicho              string      `json:"nicho"`
	Produto            string      `json:"produto"`
	Descricao          string      `json:"descricao"`
	Preco              NumberField `json:"preco"`
	Publico            string      `json:"publico"`
	Concorrentes       string      `json:"concorrentes"`
	DadosAdicionais    string      `json:"dadosAdicionais"`
	ObjetivoReceita    NumberField `json:"objetivoReceita"`
	PrazoLancamento    string      `json:"prazoLancamento"`
	OrcamentoMarketing NumberField `json:"orcamentoMarketing"`
}

func (r analyzeRequest) toDomain() avatar.Request {
	return avatar.Request{
		Niche:           strings.TrimSpace(r.Nicho),
		Product:         strings.TrimSpace(r.Produto),
		Description:     strings.TrimSpace(r.Descricao),
		Price:           r.Preco.Value,
		Audience:        strings.TrimSpace(r.Publico),
		Competitors:     strings.TrimSpace(r.Concorrentes),
		ExtraNotes:      strings.TrimSpace(r.DadosAdicionais),
		RevenueGoal:     r.ObjetivoReceita.Value,
		LaunchDeadline:  strings.TrimSpace(r.PrazoLancamento),
		MarketingBudget: r.OrcamentoMarketing.Value,
	}
}

func (h *Handler) analyze(c *gin.Context) {
	var body analyzeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid JSON body", nil)
		return
	}

	req := body.toDomain()
	if req.Niche == "" {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "nicho is required", []map[string]string{
			{"field": "nicho", "issue": "required"},
		})
		return
	}

	analysis, err := h.Svc.Create(c.Request.Context(), req)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to run analysis", nil)
		return
	}

	c.Set("analysisId", analysis.ID)
	c.Set("niche", analysis.Request.Niche)
	c.Set("dataQuality", analysis.DataQuality)

	payload := gin.H{
		"analysis_id":  analysis.ID,
		"status":       analysis.Status,
		"data_quality": analysis.DataQuality,
	}
	for key, value := range analysis.Result {
		payload[key] = value
	}
	respond.JSON(c, http.StatusOK, payload)
}

func (h *Handler) getAnalysis(c *gin.Context) {
	analysisID := c.Param("id")
	if analysisID == "" {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "analysis id is required", nil)
		return
	}

	analysis, err := h.Svc.Get(c.Request.Context(), analysisID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to fetch analysis", nil)
		}
		return
	}

	resp := gin.H{
		"id":           analysis.ID,
		"nicho":        analysis.Request.Niche,
		"produto":      analysis.Request.Product,
		"status":       analysis.Status,
		"data_quality": analysis.DataQuality,
		"created_at":   analysis.CreatedAt,
	}
	if analysis.Status == StatusCompleted && analysis.Result != nil {
		resp["result"] = analysis.Result
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) listAnalyses(c *gin.Context) {
	limit := 10
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	analyses, err := h.Svc.List(c.Request.Context(), c.Query("nicho"), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to list analyses", nil)
		return
	}

	items := make([]gin.H, 0, len(analyses))
	for _, a := range analyses {
		items = append(items, gin.H{
			"id":           a.ID,
			"nicho":        a.Request.Niche,
			"produto":      a.Request.Product,
			"status":       a.Status,
			"data_quality": a.DataQuality,
			"created_at":   a.CreatedAt,
		})
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"analyses": items,
		"count":    len(items),
	})
}

func (h *Handler) listNiches(c *gin.Context) {
	niches, err := h.Svc.ListNiches(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to list niches", nil)
		return
	}

	source := "database"
	if len(niches) == 0 {
		niches = defaultNiches
		source = "default"
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"nichos": niches,
		"count":  len(niches),
		"source": source,
	})
}

func (h *Handler) status(c *gin.Context) {
	llmFeatures := []string{}
	if h.Info.LLMConfigured {
		llmFeatures = []string{"web_search", "real_time_analysis", "competitor_research"}
	}
	dbFeatures := []string{}
	if h.Info.DatabaseAvailable {
		dbFeatures = []string{"data_persistence", "analysis_history"}
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"llm": gin.H{
			"available": h.Info.LLMConfigured,
			"model":     h.Info.LLMModel,
			"features":  llmFeatures,
		},
		"database": gin.H{
			"available": h.Info.DatabaseAvailable,
			"features":  dbFeatures,
		},
		"web_search": gin.H{
			"available": true,
			"provider":  h.Info.SearchProvider,
			"features":  []string{"real_time_data", "competitor_analysis", "trend_identification"},
		},
		"analysis_capabilities": gin.H{
			"avatar_analysis":     true,
			"market_research":     true,
			"competitor_analysis": true,
			"projection_modeling": true,
			"action_planning":     true,
		},
	})
}
