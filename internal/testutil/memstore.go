// Package testutil provee repositorios en memoria para los tests de la capa
// de aplicación. El runner de transacciones serializa los callbacks con un
// mutex: dentro de Run las lecturas y escrituras son atómicas, igual que con
// los bloqueos de fila de PostgreSQL. No simula rollback; el motor de stock
// verifica disponibilidad antes de mutar, así que las rutas de error no dejan
// escrituras a medias.
package testutil

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// MemStore almacén en memoria compartido por los repositorios falsos.
type MemStore struct {
	Mu        sync.Mutex
	Parts     map[string]*entity.Part
	Locations map[string]*entity.Location
	Stock     map[string]*entity.PartLocation // clave PartID|LocationID
	Transfers []*entity.StockTransfer
	Sales     map[string]*entity.Sale
	Purchases map[string]*entity.Purchase
	Activity  []*entity.ActivityLog
}

// NewMemStore crea un almacén vacío.
func NewMemStore() *MemStore {
	return &MemStore{
		Parts:     make(map[string]*entity.Part),
		Locations: make(map[string]*entity.Location),
		Stock:     make(map[string]*entity.PartLocation),
		Sales:     make(map[string]*entity.Sale),
		Purchases: make(map[string]*entity.Purchase),
	}
}

// StockKey clave de la fila de stock.
func StockKey(partID, locationID string) string { return partID + "|" + locationID }

// AddPart registra un repuesto de prueba.
func (s *MemStore) AddPart(p *entity.Part) { s.Parts[p.ID] = p }

// AddLocation registra una ubicación de prueba.
func (s *MemStore) AddLocation(l *entity.Location) { s.Locations[l.ID] = l }

// AddStock registra una fila de stock de prueba.
func (s *MemStore) AddStock(pl *entity.PartLocation) {
	s.Stock[StockKey(pl.PartID, pl.LocationID)] = pl
}

// StockQty cantidad actual en una ubicación (0 si no hay fila).
func (s *MemStore) StockQty(partID, locationID string) int {
	if pl, ok := s.Stock[StockKey(partID, locationID)]; ok {
		return pl.Quantity
	}
	return 0
}

// SumStock suma las filas de stock del repuesto.
func (s *MemStore) SumStock(partID string) int {
	total := 0
	for _, pl := range s.Stock {
		if pl.PartID == partID {
			total += pl.Quantity
		}
	}
	return total
}

// StrPtr helper para literales *string en los tests.
func StrPtr(v string) *string { return &v }

// ─── PartRepository ───────────────────────────────────────────────────────────

// PartRepo implementación en memoria de repository.PartRepository.
type PartRepo struct{ S *MemStore }

var _ repository.PartRepository = (*PartRepo)(nil)

func (r *PartRepo) Create(p *entity.Part) error {
	r.S.Parts[p.ID] = p
	return nil
}

func (r *PartRepo) GetByID(id string) (*entity.Part, error) {
	p, ok := r.S.Parts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *PartRepo) GetForUpdate(id string) (*entity.Part, error) {
	return r.GetByID(id)
}

func (r *PartRepo) Update(p *entity.Part) error {
	if _, ok := r.S.Parts[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.S.Parts[p.ID] = p
	return nil
}

func (r *PartRepo) UpdateQuantityInStock(partID string, quantity int) error {
	p, ok := r.S.Parts[partID]
	if !ok {
		return domain.ErrNotFound
	}
	p.QuantityInStock = quantity
	return nil
}

func (r *PartRepo) UpdatePurchasePrice(partID string, cost decimal.Decimal) error {
	p, ok := r.S.Parts[partID]
	if !ok {
		return domain.ErrNotFound
	}
	p.PurchasePrice = cost
	return nil
}

func (r *PartRepo) List(category, search string, limit, offset int) ([]*entity.Part, error) {
	var list []*entity.Part
	for _, p := range r.S.Parts {
		cp := *p
		list = append(list, &cp)
	}
	return list, nil
}

func (r *PartRepo) Delete(id string) error {
	delete(r.S.Parts, id)
	return nil
}

// ─── LocationRepository ───────────────────────────────────────────────────────

// LocationRepo implementación en memoria de repository.LocationRepository.
type LocationRepo struct{ S *MemStore }

var _ repository.LocationRepository = (*LocationRepo)(nil)

func (r *LocationRepo) Create(l *entity.Location) error {
	r.S.Locations[l.ID] = l
	return nil
}

func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	l, ok := r.S.Locations[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *LocationRepo) List() ([]*entity.Location, error) {
	var list []*entity.Location
	for _, l := range r.S.Locations {
		cp := *l
		list = append(list, &cp)
	}
	return list, nil
}

func (r *LocationRepo) Delete(id string) error {
	delete(r.S.Locations, id)
	return nil
}

// ─── PartLocationRepository ───────────────────────────────────────────────────

// StockRepo implementación en memoria de repository.PartLocationRepository.
type StockRepo struct{ S *MemStore }

var _ repository.PartLocationRepository = (*StockRepo)(nil)

func (r *StockRepo) Get(partID, locationID string) (*entity.PartLocation, error) {
	pl, ok := r.S.Stock[StockKey(partID, locationID)]
	if !ok {
		return nil, nil
	}
	cp := *pl
	return &cp, nil
}

func (r *StockRepo) GetForUpdate(partID, locationID string) (*entity.PartLocation, error) {
	pl, ok := r.S.Stock[StockKey(partID, locationID)]
	if !ok {
		return &entity.PartLocation{
			PartID:        partID,
			LocationID:    locationID,
			MinStockLevel: entity.DefaultMinStockLevel,
		}, nil
	}
	cp := *pl
	return &cp, nil
}

func (r *StockRepo) ApplyDelta(partID, locationID string, delta, defaultMinStock int) (*entity.PartLocation, error) {
	key := StockKey(partID, locationID)
	pl, ok := r.S.Stock[key]
	if !ok {
		pl = &entity.PartLocation{
			PartID:        partID,
			LocationID:    locationID,
			MinStockLevel: defaultMinStock,
		}
		r.S.Stock[key] = pl
	}
	if pl.Quantity+delta < 0 {
		return nil, &domain.NegativeStockError{PartID: partID, LocationID: locationID, Resulting: pl.Quantity + delta}
	}
	pl.Quantity += delta
	cp := *pl
	return &cp, nil
}

func (r *StockRepo) SetMinStockLevel(partID, locationID string, level int) error {
	pl, ok := r.S.Stock[StockKey(partID, locationID)]
	if !ok {
		return domain.ErrNotFound
	}
	pl.MinStockLevel = level
	return nil
}

func (r *StockRepo) SumByPart(partID string) (int, error) {
	return r.S.SumStock(partID), nil
}

func (r *StockRepo) CountByPart(partID string) (int, error) {
	count := 0
	for _, pl := range r.S.Stock {
		if pl.PartID == partID {
			count++
		}
	}
	return count, nil
}

func (r *StockRepo) ListByPart(partID string) ([]*entity.PartLocation, error) {
	var list []*entity.PartLocation
	for _, pl := range r.S.Stock {
		if pl.PartID == partID {
			cp := *pl
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *StockRepo) ListByLocation(locationID string) ([]*entity.PartLocation, error) {
	var list []*entity.PartLocation
	for _, pl := range r.S.Stock {
		if pl.LocationID == locationID {
			cp := *pl
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *StockRepo) Upsert(pl *entity.PartLocation) error {
	cp := *pl
	r.S.Stock[StockKey(pl.PartID, pl.LocationID)] = &cp
	return nil
}

func (r *StockRepo) Delete(partID, locationID string) error {
	delete(r.S.Stock, StockKey(partID, locationID))
	return nil
}

// ─── StockTransferRepository ──────────────────────────────────────────────────

// TransferRepo implementación en memoria de repository.StockTransferRepository.
type TransferRepo struct{ S *MemStore }

var _ repository.StockTransferRepository = (*TransferRepo)(nil)

func (r *TransferRepo) Create(t *entity.StockTransfer) error {
	cp := *t
	r.S.Transfers = append(r.S.Transfers, &cp)
	return nil
}

func (r *TransferRepo) GetByID(id string) (*entity.StockTransfer, error) {
	for _, t := range r.S.Transfers {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *TransferRepo) List(filter repository.TransferFilter, limit, offset int) ([]*entity.StockTransfer, error) {
	var list []*entity.StockTransfer
	for _, t := range r.S.Transfers {
		cp := *t
		list = append(list, &cp)
	}
	return list, nil
}

// ─── SaleRepository ───────────────────────────────────────────────────────────

// SaleRepo implementación en memoria de repository.SaleRepository.
type SaleRepo struct{ S *MemStore }

var _ repository.SaleRepository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(sale *entity.Sale) error {
	cp := *sale
	r.S.Sales[sale.ID] = &cp
	return nil
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	s, ok := r.S.Sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *SaleRepo) List(filter repository.SaleFilter, limit, offset int) ([]*entity.Sale, error) {
	var list []*entity.Sale
	for _, s := range r.S.Sales {
		cp := *s
		list = append(list, &cp)
	}
	return list, nil
}

func (r *SaleRepo) Delete(id string) error {
	delete(r.S.Sales, id)
	return nil
}

// ─── PurchaseRepository ───────────────────────────────────────────────────────

// PurchaseRepo implementación en memoria de repository.PurchaseRepository.
type PurchaseRepo struct{ S *MemStore }

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

func (r *PurchaseRepo) Create(p *entity.Purchase) error {
	cp := *p
	r.S.Purchases[p.ID] = &cp
	return nil
}

func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	p, ok := r.S.Purchases[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *PurchaseRepo) List(filter repository.PurchaseFilter, limit, offset int) ([]*entity.Purchase, error) {
	var list []*entity.Purchase
	for _, p := range r.S.Purchases {
		cp := *p
		list = append(list, &cp)
	}
	return list, nil
}

func (r *PurchaseRepo) Delete(id string) error {
	delete(r.S.Purchases, id)
	return nil
}

// ─── ActivityLogRepository ────────────────────────────────────────────────────

// ActivityRepo implementación en memoria de repository.ActivityLogRepository.
type ActivityRepo struct{ S *MemStore }

var _ repository.ActivityLogRepository = (*ActivityRepo)(nil)

func (r *ActivityRepo) Create(log *entity.ActivityLog) error {
	cp := *log
	r.S.Activity = append(r.S.Activity, &cp)
	return nil
}

func (r *ActivityRepo) List(limit, offset int) ([]*entity.ActivityLog, error) {
	var list []*entity.ActivityLog
	for _, l := range r.S.Activity {
		cp := *l
		list = append(list, &cp)
	}
	return list, nil
}

// ─── TxRunner ─────────────────────────────────────────────────────────────────

// TxRunner runner de transacciones en memoria. Satisface los puertos de
// transacción del ledger, ventas y compras.
type TxRunner struct{ S *MemStore }

// Run ejecuta fn con los repos del ledger bajo el mutex del almacén.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.PartLocationRepository,
	partRepo repository.PartRepository,
	transferRepo repository.StockTransferRepository,
) error) error {
	r.S.Mu.Lock()
	defer r.S.Mu.Unlock()
	return fn(&StockRepo{S: r.S}, &PartRepo{S: r.S}, &TransferRepo{S: r.S})
}

// RunSale ejecuta fn con el repo de ventas además de los del ledger.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	stockRepo repository.PartLocationRepository,
	partRepo repository.PartRepository,
) error) error {
	r.S.Mu.Lock()
	defer r.S.Mu.Unlock()
	return fn(&SaleRepo{S: r.S}, &StockRepo{S: r.S}, &PartRepo{S: r.S})
}

// RunPurchase ejecuta fn con el repo de compras además de los del ledger.
func (r *TxRunner) RunPurchase(ctx context.Context, fn func(
	purchaseRepo repository.PurchaseRepository,
	stockRepo repository.PartLocationRepository,
	partRepo repository.PartRepository,
) error) error {
	r.S.Mu.Lock()
	defer r.S.Mu.Unlock()
	return fn(&PurchaseRepo{S: r.S}, &StockRepo{S: r.S}, &PartRepo{S: r.S})
}
