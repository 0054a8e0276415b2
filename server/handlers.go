package server

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"bankcompare/reporting"
	"bankcompare/schema"
	"bankcompare/server/middleware"
)

// productPayload запись продукта одного банка в теле запроса
type productPayload struct {
	Bank   string           `json:"bank" binding:"required"`
	Record schema.RawRecord `json:"record" binding:"required"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleListSchemas(c *gin.Context) {
	types := schema.AllProductTypes()
	payload := make([]gin.H, 0, len(types))
	for _, pt := range types {
		payload = append(payload, gin.H{
			"product_type": pt,
			"fields":       schema.For(pt).FieldNames(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"schemas": payload})
}

func (s *Server) handleGetSchema(c *gin.Context) {
	pt, ok := s.productType(c)
	if !ok {
		return
	}

	productSchema := schema.For(pt)
	c.JSON(http.StatusOK, gin.H{
		"product_type":  productSchema.Type,
		"fields":        productSchema.FieldNames(),
		"display_names": productSchema.DisplayNames,
	})
}

func (s *Server) handleListBanks(c *gin.Context) {
	pt, ok := s.productType(c)
	if !ok {
		return
	}

	banks, err := s.loader.ListBanks(pt)
	if err != nil {
		s.abortError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product_type": pt, "banks": banks})
}

func (s *Server) handleNormalize(c *gin.Context) {
	var req struct {
		ProductType schema.ProductType `json:"product_type" binding:"required"`
		productPayload
	}
	if !s.bindJSON(c, &req) {
		return
	}
	if !s.checkProductType(c, req.ProductType) {
		return
	}

	canonical := s.normalizer.Normalize(req.Record, req.Bank, req.ProductType)
	completeness := s.validator.CompletenessScore(req.Record, req.ProductType)

	c.JSON(http.StatusOK, gin.H{
		"record":       canonical,
		"completeness": completeness,
	})
}

func (s *Server) handleValidate(c *gin.Context) {
	var req struct {
		ProductType schema.ProductType `json:"product_type" binding:"required"`
		productPayload
	}
	if !s.bindJSON(c, &req) {
		return
	}
	if !s.checkProductType(c, req.ProductType) {
		return
	}

	isValid, issues := s.validator.ValidateProduct(req.Record, req.ProductType, req.Bank)
	completeness := s.validator.CompletenessScore(req.Record, req.ProductType)

	c.JSON(http.StatusOK, gin.H{
		"is_valid":     isValid,
		"issues":       issues,
		"completeness": completeness,
	})
}

// compareRequest запрос сравнения двух продуктов
type compareRequest struct {
	ProductType schema.ProductType `json:"product_type" binding:"required"`
	Reference   productPayload     `json:"reference" binding:"required"`
	Competitor  productPayload     `json:"competitor" binding:"required"`
	Save        bool               `json:"save"`
}

func (s *Server) handleCompare(c *gin.Context) {
	var req compareRequest
	if !s.bindJSON(c, &req) {
		return
	}
	if !s.checkProductType(c, req.ProductType) {
		return
	}

	reference := s.normalizer.Normalize(req.Reference.Record, req.Reference.Bank, req.ProductType)
	competitor := s.normalizer.Normalize(req.Competitor.Record, req.Competitor.Bank, req.ProductType)
	result := s.comparator.Compare(reference, competitor, req.ProductType)

	response := gin.H{"comparison": result}

	if req.Save && s.store != nil {
		id, err := s.store.SaveComparison(req.ProductType, req.Reference.Bank, req.Competitor.Bank, result)
		if err != nil {
			s.logger.Error("Failed to save comparison",
				"error", err,
				"request_id", middleware.GetRequestID(c),
			)
		} else {
			response["id"] = id
		}
	}

	c.JSON(http.StatusOK, response)
}

func (s *Server) handleCompareMulti(c *gin.Context) {
	var req struct {
		ProductType schema.ProductType `json:"product_type" binding:"required"`
		Reference   productPayload     `json:"reference" binding:"required"`
		Competitors []productPayload   `json:"competitors"`
	}
	if !s.bindJSON(c, &req) {
		return
	}
	if !s.checkProductType(c, req.ProductType) {
		return
	}

	reference := s.normalizer.Normalize(req.Reference.Record, req.Reference.Bank, req.ProductType)
	competitors := make([]schema.CanonicalRecord, 0, len(req.Competitors))
	for _, comp := range req.Competitors {
		competitors = append(competitors, s.normalizer.Normalize(comp.Record, comp.Bank, req.ProductType))
	}

	result := s.comparator.CompareMany(reference, competitors, req.ProductType)
	c.JSON(http.StatusOK, gin.H{"comparison": result})
}

func (s *Server) handleExport(c *gin.Context) {
	var req struct {
		compareRequest
		Format reporting.ExportFormat `json:"format" binding:"required"`
	}
	if !s.bindJSON(c, &req) {
		return
	}
	if !s.checkProductType(c, req.ProductType) {
		return
	}

	reference := s.normalizer.Normalize(req.Reference.Record, req.Reference.Bank, req.ProductType)
	competitor := s.normalizer.Normalize(req.Competitor.Record, req.Competitor.Bank, req.ProductType)
	result := s.comparator.Compare(reference, competitor, req.ProductType)

	ext := map[reporting.ExportFormat]string{
		reporting.FormatJSON:  "json",
		reporting.FormatCSV:   "csv",
		reporting.FormatExcel: "xlsx",
	}[req.Format]
	if ext == "" {
		s.abortError(c, http.StatusBadRequest, fmt.Errorf("unsupported export format: %s", req.Format))
		return
	}

	// Файл на каждый запрос свой: одинаковые параллельные запросы
	// не должны делить путь во временном каталоге
	tmp, err := os.CreateTemp("", "comparison-*."+ext)
	if err != nil {
		s.abortError(c, http.StatusInternalServerError, fmt.Errorf("failed to create temp file: %w", err))
		return
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	if err := s.exporter.Export(result, req.Format, path); err != nil {
		s.abortError(c, http.StatusInternalServerError, err)
		return
	}

	filename := fmt.Sprintf("comparison_%s_%s_vs_%s.%s",
		req.ProductType, req.Reference.Bank, req.Competitor.Bank, ext)
	c.FileAttachment(path, filename)
}

func (s *Server) handleQualityReport(c *gin.Context) {
	pt, ok := s.productType(c)
	if !ok {
		return
	}

	banks, err := s.loader.LoadComparison(pt)
	if err != nil {
		s.abortError(c, http.StatusNotFound, err)
		return
	}

	report := s.validator.GenerateReport(banks, pt)
	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (s *Server) handleSaveProduct(c *gin.Context) {
	var req struct {
		ProductType schema.ProductType `json:"product_type" binding:"required"`
		productPayload
	}
	if !s.bindJSON(c, &req) {
		return
	}
	if !s.checkProductType(c, req.ProductType) {
		return
	}

	if err := s.store.SaveProduct(req.Bank, req.ProductType, req.Record); err != nil {
		s.abortError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bank": req.Bank, "product_type": req.ProductType})
}

func (s *Server) handleGetProduct(c *gin.Context) {
	pt, ok := s.productType(c)
	if !ok {
		return
	}
	bank := c.Param("bank")

	record, err := s.store.GetProduct(bank, pt)
	if err != nil {
		s.abortError(c, http.StatusNotFound, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bank": bank, "product_type": pt, "record": record})
}

func (s *Server) handleRecentComparisons(c *gin.Context) {
	comparisons, err := s.store.RecentComparisons(20)
	if err != nil {
		s.abortError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comparisons": comparisons})
}

func (s *Server) handleGetComparison(c *gin.Context) {
	saved, err := s.store.GetComparison(c.Param("id"))
	if err != nil {
		s.abortError(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comparison": saved})
}

// productType читает и проверяет тип продукта из параметра пути
func (s *Server) productType(c *gin.Context) (schema.ProductType, bool) {
	pt := schema.ProductType(c.Param("type"))
	if !pt.IsValid() {
		s.abortError(c, http.StatusBadRequest, fmt.Errorf("unknown product type: %s", pt))
		return "", false
	}
	return pt, true
}

func (s *Server) checkProductType(c *gin.Context, pt schema.ProductType) bool {
	if !pt.IsValid() {
		s.abortError(c, http.StatusBadRequest, fmt.Errorf("unknown product type: %s", pt))
		return false
	}
	return true
}

func (s *Server) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		s.abortError(c, http.StatusBadRequest, err)
		return false
	}
	return true
}

// abortError отправляет JSON-ошибку и логирует ее с request ID
func (s *Server) abortError(c *gin.Context, status int, err error) {
	s.logger.Error("HTTP error",
		"error", err,
		"status_code", status,
		"request_id", middleware.GetRequestID(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
	c.AbortWithStatusJSON(status, gin.H{
		"error":   true,
		"message": err.Error(),
	})
}
