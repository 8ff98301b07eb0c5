package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"brewmenu/models"
	"brewmenu/realtime"
	"brewmenu/repository"
	"brewmenu/utils"
)

type TableController struct {
	Tables repository.TableRepository
}

func NewTableController(tables repository.TableRepository) *TableController {
	return &TableController{Tables: tables}
}

func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Tables.List()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondData(c, http.StatusOK, "tables", tables)
}

func (tc *TableController) GetTableByID(c *gin.Context) {
	id, err := parseID(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, errNotFound)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondData(c, http.StatusOK, "table", table)
}

// UpdateTableStatus -> manual floor-staff override. Last write wins; the
// order lifecycle writes the same column.
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	id, err := parseID(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !models.IsTableStatus(body.Status) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown table status %q", body.Status))
		return
	}

	if err := tc.Tables.UpdateStatus(id, body.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, errNotFound)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	table, err := tc.Tables.Get(id)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	realtime.BroadcastTableChange(table)
	utils.RespondData(c, http.StatusOK, "table", table)
}
