package handler

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/musicquiz-api/internal/middleware"
	"github.com/yourusername/musicquiz-api/internal/service"
)

// ScoreboardHandler обрабатывает запросы таблицы лидеров
type ScoreboardHandler struct {
	scoreService *service.ScoreService
}

// NewScoreboardHandler создает новый обработчик таблицы лидеров
func NewScoreboardHandler(scoreService *service.ScoreService) *ScoreboardHandler {
	return &ScoreboardHandler{scoreService: scoreService}
}

// GetScoreboard возвращает таблицу лидеров сессии (админ или участник)
func (h *ScoreboardHandler) GetScoreboard(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	board, err := h.scoreService.GetScoreboard(principal, c.Param("sessionId"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}

// ResetPoints обнуляет очки всех участий сессии, не удаляя ответы
func (h *ScoreboardHandler) ResetPoints(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	if err := h.scoreService.ResetPoints(principal, c.Param("sessionId")); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Points reset successfully"})
}

// ExportScoreboard выгружает таблицу лидеров сессии в XLSX
func (h *ScoreboardHandler) ExportScoreboard(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	sessionID := c.Param("sessionId")

	board, err := h.scoreService.GetScoreboard(principal, sessionID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"scoreboard_%s.xlsx\"", sessionID))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Scoreboard"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ScoreboardHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Место", "Участник", "Очки", "Правильных ответов", "Присоединился"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ScoreboardHandler] Ошибка записи заголовков: %v", err)
	}

	for i, e := range board.Entries {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{e.Rank, sanitizeForExcel(e.Name), e.TotalPoints, e.CorrectAnswers, e.JoinedAt.Format("2006-01-02 15:04:05")}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[ScoreboardHandler] Ошибка записи строки %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ScoreboardHandler] Ошибка при Flush: %v", err)
	}
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ScoreboardHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
