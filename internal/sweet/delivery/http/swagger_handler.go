package http

// CreateSweet godoc
// @Summary Create a sweet
// @Description Add a new sweet to the catalog (admin only)
// @Tags Sweets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,category=string,price=number,quantity=integer} true "Sweet data"
// @Success 201 {object} object{message=string,sweet=object}
// @Failure 400 {object} object{error=string}
// @Router /api/sweets [post]
func (h *SweetHandler) CreateSweetDoc() {}

// ListSweets godoc
// @Summary List all sweets
// @Description Return all sweets, newest first
// @Tags Sweets
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{sweets=[]object}
// @Router /api/sweets [get]
func (h *SweetHandler) ListSweetsDoc() {}

// SearchSweets godoc
// @Summary Search sweets
// @Description Filter sweets by name, category and price range
// @Tags Sweets
// @Security BearerAuth
// @Produce json
// @Param name query string false "Case-insensitive name substring"
// @Param category query string false "Exact category (case-insensitive)"
// @Param minPrice query number false "Minimum price, inclusive"
// @Param maxPrice query number false "Maximum price, inclusive"
// @Success 200 {object} object{sweets=[]object}
// @Failure 400 {object} object{error=string}
// @Router /api/sweets/search [get]
func (h *SweetHandler) SearchSweetsDoc() {}

// PurchaseSweet godoc
// @Summary Purchase a sweet
// @Description Atomically decrement stock by the requested quantity
// @Tags Inventory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Sweet ID"
// @Param request body object{quantity=integer} true "Quantity to purchase"
// @Success 200 {object} object{message=string,sweet=object}
// @Failure 400 {object} object{error=string} "Insufficient quantity available"
// @Failure 404 {object} object{error=string}
// @Router /api/sweets/{id}/purchase [post]
func (h *SweetHandler) PurchaseSweetDoc() {}

// RestockSweet godoc
// @Summary Restock a sweet
// @Description Increase stock by the given quantity (admin only)
// @Tags Inventory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Sweet ID"
// @Param request body object{quantity=integer} true "Quantity to add"
// @Success 200 {object} object{message=string,sweet=object}
// @Failure 404 {object} object{error=string}
// @Router /api/sweets/{id}/restock [post]
func (h *SweetHandler) RestockSweetDoc() {}

// ReleaseSweet godoc
// @Summary Release held stock
// @Description Return previously held stock back to the sweet
// @Tags Inventory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Sweet ID"
// @Param request body object{quantity=integer} true "Quantity to release"
// @Success 200 {object} object{message=string,sweet=object}
// @Failure 404 {object} object{error=string}
// @Router /api/sweets/{id}/release [post]
func (h *SweetHandler) ReleaseSweetDoc() {}
