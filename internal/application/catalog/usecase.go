package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// CatalogUseCase casos de uso CRUD para productos y categorías. El stock se maneja vía movimientos.
type CatalogUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(txRunner TxRunner, productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *CatalogUseCase {
	return &CatalogUseCase{txRunner: txRunner, productRepo: productRepo, categoryRepo: categoryRepo}
}

// List lista productos (filtrando por nombre o descripción si search no está vacío) y todas las categorías.
func (uc *CatalogUseCase) List(ctx context.Context, search string) (*dto.CatalogResponse, error) {
	search = strings.TrimSpace(search)
	products, err := uc.productRepo.List(ctx, search)
	if err != nil {
		return nil, err
	}
	categories, err := uc.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.CatalogResponse{
		Search:     search,
		Products:   make([]dto.ProductResponse, 0, len(products)),
		Categories: categories,
	}
	for _, p := range products {
		out.Products = append(out.Products, *toProductResponse(p))
	}
	return out, nil
}

// Get obtiene un producto por ID.
func (uc *CatalogUseCase) Get(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// Create crea un producto. La cantidad en stock inicia en 0: el stock inicial entra como movimiento.
func (uc *CatalogUseCase) Create(ctx context.Context, in dto.ProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update actualiza los datos descriptivos. Nunca modifica la cantidad en stock.
func (uc *CatalogUseCase) Update(ctx context.Context, id int64, in dto.ProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	product.ID = id
	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return uc.Get(ctx, id)
}

// Delete elimina un producto sin movimientos. Con histórico devuelve ErrReferentialConflict
// y no borra nada: el histórico de auditoría nunca se elimina en cascada.
func (uc *CatalogUseCase) Delete(ctx context.Context, id int64) error {
	return uc.txRunner.RunCatalog(ctx, func(productRepo repository.ProductRepository, movRepo repository.MovementRepository) error {
		p, err := productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		n, err := movRepo.CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %q tiene %d movimiento(s) registrados", domain.ErrReferentialConflict, p.Name, n)
		}
		return productRepo.Delete(ctx, id)
	})
}

// ListCategories todas las categorías por nombre.
func (uc *CatalogUseCase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

// CreateCategory crea una categoría con nombre único.
func (uc *CatalogUseCase) CreateCategory(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("el nombre de la categoría es obligatorio")
	}
	existing, err := uc.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	c := &entity.Category{Name: name}
	if err := uc.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name}, nil
}

// ImportProducts alta masiva. Las categorías se resuelven por nombre y se crean si faltan.
// Se detiene en la primera fila inválida y devuelve cuántas se importaron.
func (uc *CatalogUseCase) ImportProducts(ctx context.Context, rows []dto.ProductImportRow) (int, error) {
	categoryIDs := map[string]int64{}
	imported := 0
	for i, row := range rows {
		catName := strings.TrimSpace(row.CategoryName)
		catID, ok := categoryIDs[strings.ToLower(catName)]
		if !ok {
			id, err := uc.resolveCategory(ctx, catName)
			if err != nil {
				return imported, fmt.Errorf("fila %d: %w", i+1, err)
			}
			catID = id
			categoryIDs[strings.ToLower(catName)] = id
		}
		_, err := uc.Create(ctx, dto.ProductRequest{
			Name:         row.Name,
			CategoryID:   catID,
			Description:  row.Description,
			MinimumStock: row.MinimumStock,
			Location:     row.Location,
		})
		if err != nil {
			return imported, fmt.Errorf("fila %d: %w", i+1, err)
		}
		imported++
	}
	return imported, nil
}

func (uc *CatalogUseCase) resolveCategory(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, domain.Invalid("la categoría es obligatoria")
	}
	c, err := uc.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if c != nil {
		return c.ID, nil
	}
	created, err := uc.CreateCategory(ctx, dto.CategoryRequest{Name: name})
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

// validate aplica las reglas comunes de alta y edición.
func (uc *CatalogUseCase) validate(ctx context.Context, in dto.ProductRequest) (*entity.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.CategoryID <= 0 {
		return nil, domain.Invalid("nombre y categoría son obligatorios")
	}
	if in.MinimumStock < 0 {
		return nil, domain.Invalid("el stock mínimo no puede ser negativo")
	}
	if in.MinimumStock > entity.MaxQuantity {
		return nil, domain.Invalid(fmt.Sprintf("el stock mínimo no puede superar %d", entity.MaxQuantity))
	}
	cat, err := uc.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: categoría %d", domain.ErrNotFound, in.CategoryID)
	}
	return &entity.Product{
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		MinimumStock: in.MinimumStock,
		Location:     strings.TrimSpace(in.Location),
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Quantity:     p.Quantity,
		MinimumStock: p.MinimumStock,
		Location:     p.Location,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		BelowMinimum: p.BelowMinimum(),
	}
}
