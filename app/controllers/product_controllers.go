package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/kirana/app/repositories"
	"github.com/shashiranjanraj/kirana/app/services"
	"github.com/shashiranjanraj/kirana/pkg/bind"
	"github.com/shashiranjanraj/kirana/pkg/response"
)

// ProductController exposes the catalog over HTTP.
type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// List handles GET /products.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	products, err := c.catalog.List(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, products)
}

// GetBySlug handles GET /products/{slug}.
func (c *ProductController) GetBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := c.catalog.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, product)
}

// Photo handles GET /products/photo/{id}. It writes the raw blob with its
// stored content type instead of the JSON envelope.
func (c *ProductController) Photo(w http.ResponseWriter, r *http.Request) {
	photo, err := c.catalog.Photo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	if len(photo.Data) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", photo.ContentType)
	w.Write(photo.Data)
}

// Create handles POST /products (multipart form with an optional photo).
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	in, err := parseProductForm(r)
	if err != nil {
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	product, err := c.catalog.Create(r.Context(), in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, product)
}

// Update handles PUT /products/{id}.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	in, err := parseProductForm(r)
	if err != nil {
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	product, err := c.catalog.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, product)
}

// Delete handles DELETE /products/{id}.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "product deleted"})
}

type filterRequest struct {
	Categories []string `json:"categories"`
	Price      *struct {
		Min *float64 `json:"min"`
		Max *float64 `json:"max"`
	} `json:"price"`
}

// Filter handles POST /products/filters.
func (c *ProductController) Filter(w http.ResponseWriter, r *http.Request) {
	var body filterRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	} else if errs != nil {
		response.ValidationErrors(w, errs)
		return
	}

	var price *services.PriceRange
	if body.Price != nil {
		price = &repositories.PriceRange{Min: body.Price.Min, Max: body.Price.Max}
	}

	products, err := c.catalog.Filter(r.Context(), body.Categories, price)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, products)
}

// Count handles GET /products/count.
func (c *ProductController) Count(w http.ResponseWriter, r *http.Request) {
	n, err := c.catalog.Count(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]int64{"count": n})
}

// ListPage handles GET /products/page?page=N.
func (c *ProductController) ListPage(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)

	products, err := c.catalog.ListPage(r.Context(), page)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, products)
}

// Search handles GET /products/search?q=keyword.
func (c *ProductController) Search(w http.ResponseWriter, r *http.Request) {
	products, err := c.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, products)
}

// Related handles GET /products/related/{id}/{categoryId}.
func (c *ProductController) Related(w http.ResponseWriter, r *http.Request) {
	products, err := c.catalog.Related(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "categoryId"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, products)
}

// ByCategory handles GET /products/category/{slug}.
func (c *ProductController) ByCategory(w http.ResponseWriter, r *http.Request) {
	category, products, err := c.catalog.ByCategory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"category": category,
		"products": products,
	})
}

// parseProductForm reads a multipart product payload. Numeric fields arrive
// as form strings; anything unparseable is reported before the service runs.
func parseProductForm(r *http.Request) (services.ProductInput, error) {
	var in services.ProductInput

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		return in, err
	}

	in.Name = r.FormValue("name")
	in.Description = r.FormValue("description")
	in.CategoryID = r.FormValue("category")

	if raw := r.FormValue("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, err
		}
		in.Price = price
	}
	if raw := r.FormValue("quantity"); raw != "" {
		qty, err := strconv.Atoi(raw)
		if err != nil {
			return in, err
		}
		in.Quantity = qty
	}
	if raw := r.FormValue("shipping"); raw != "" {
		shipping, err := strconv.ParseBool(raw)
		if err != nil {
			return in, err
		}
		in.Shipping = &shipping
	}

	file, header, err := r.FormFile("photo")
	if err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return in, err
		}
		in.Photo = data
		in.PhotoContentType = header.Header.Get("Content-Type")
	}

	return in, nil
}
