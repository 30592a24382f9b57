package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// ListAntibiograms godoc
// @Summary List antibiograms
// @Description Get all antibiograms ordered by name
// @Tags Antibiogramas
// @Produce json
// @Success 200 {array} object{id=int,nombre=string}
// @Failure 500 {object} object{ok=bool,error=string}
// @Router /antibiogramas [get]
func (h *InventoryHandler) ListAntibiogramsDoc() {}

// ListAntibiotics godoc
// @Summary List antibiotics
// @Description Get all antibiotic stock records ordered by name
// @Tags Antibioticos
// @Produce json
// @Success 200 {array} object{codigo=string,nombre=string,cantidad=int,stock_minimo=int}
// @Failure 500 {object} object{ok=bool,error=string}
// @Router /antibioticos [get]
func (h *InventoryHandler) ListAntibioticsDoc() {}

// LowStock godoc
// @Summary Low stock alerts
// @Description List antibiotics at or below their minimum threshold
// @Tags Alerts
// @Produce json
// @Success 200 {object} object{ok=bool,count=int,items=array}
// @Failure 500 {object} object{ok=bool,error=string}
// @Router /alerts/low-stock [get]
func (h *InventoryHandler) LowStockDoc() {}

// ReplaceAssociations godoc
// @Summary Replace antibiogram associations
// @Description Atomically replace the full antibiotic set of an antibiogram
// @Tags Antibiogramas
// @Accept json
// @Produce json
// @Param id path int true "Antibiogram ID"
// @Param request body object{codes=[]string} true "Antibiotic codes"
// @Success 200 {object} object{ok=bool,count=int}
// @Failure 400 {object} object{ok=bool,error=string}
// @Router /antibiogramas/{id}/antibioticos [post]
func (h *InventoryHandler) ReplaceAssociationsDoc() {}

// UpdateStock godoc
// @Summary Update antibiotic stock
// @Description Set quantity and minimum threshold for one antibiotic
// @Tags Antibioticos
// @Accept json
// @Produce json
// @Param codigo path string true "Antibiotic code"
// @Param request body object{quantity=int,threshold=int} true "Stock values"
// @Success 200 {object} object{ok=bool,item=object}
// @Failure 400 {object} object{ok=bool,error=string}
// @Failure 404 {object} object{ok=bool,error=string}
// @Router /antibioticos/{codigo} [put]
func (h *InventoryHandler) UpdateStockDoc() {}

// SubtractStock godoc
// @Summary Subtract antibiotic stock
// @Description Atomically decrement one antibiotic's quantity
// @Tags Antibioticos
// @Accept json
// @Produce json
// @Param codigo path string true "Antibiotic code"
// @Param request body object{quantity=int} true "Decrement amount"
// @Success 200 {object} object{ok=bool,item=object}
// @Failure 400 {object} object{ok=bool,error=string}
// @Failure 404 {object} object{ok=bool,error=string}
// @Failure 409 {object} object{ok=bool,error=string,cantidad=int}
// @Router /antibioticos/{codigo}/restar [post]
func (h *InventoryHandler) SubtractStockDoc() {}

// RegisterOutflow godoc
// @Summary Register panel outflow
// @Description Decrement all antibiotics of an antibiogram and append one outflow log row
// @Tags Salidas
// @Accept json
// @Produce json
// @Param request body object{antibiogram_id=int,units=int} true "Outflow data"
// @Success 200 {object} object{ok=bool}
// @Failure 400 {object} object{ok=bool,error=string}
// @Failure 409 {object} object{ok=bool,error=string,faltantes=array}
// @Router /salidas [post]
func (h *InventoryHandler) RegisterOutflowDoc() {}
