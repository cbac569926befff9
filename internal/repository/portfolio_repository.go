package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"AntVillage/internal/domain/models"
	"AntVillage/internal/domain/repository"
)

// ClickHousePortfolioStore implements HoldingsProvider and AssetCatalog
// over the portfolios, holdings and assets tables.
type ClickHousePortfolioStore struct {
	db *sql.DB
}

func NewClickHousePortfolioStore(db *sql.DB) *ClickHousePortfolioStore {
	return &ClickHousePortfolioStore{db: db}
}

func (s *ClickHousePortfolioStore) Portfolio(ctx context.Context, userID, portfolioID int64) (*models.Village, error) {
	q := "SELECT id, user_id, name, profile FROM portfolios WHERE id = ? AND user_id = ? LIMIT 1"

	var v models.Village
	err := s.db.QueryRowContext(ctx, q, portfolioID, userID).
		Scan(&v.ID, &v.UserID, &v.Name, &v.Profile)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *ClickHousePortfolioStore) Holdings(ctx context.Context, userID, portfolioID int64) ([]models.Holding, error) {
	q := "SELECT asset_id, quantity, avg_buy_price FROM holdings WHERE user_id = ? AND portfolio_id = ? AND quantity > 0"
	rows, err := s.db.QueryContext(ctx, q, userID, portfolioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holdings []models.Holding
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(&h.AssetID, &h.Quantity, &h.AvgBuyPrice); err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

func (s *ClickHousePortfolioStore) AllPortfolios(ctx context.Context) ([]models.Village, error) {
	q := "SELECT id, user_id, name, profile FROM portfolios ORDER BY user_id, id"
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var villages []models.Village
	for rows.Next() {
		var v models.Village
		if err := rows.Scan(&v.ID, &v.UserID, &v.Name, &v.Profile); err != nil {
			return nil, err
		}
		villages = append(villages, v)
	}
	return villages, rows.Err()
}

func (s *ClickHousePortfolioStore) Assets(ctx context.Context, assetIDs []int64) (map[int64]models.Asset, error) {
	if len(assetIDs) == 0 {
		return map[int64]models.Asset{}, nil
	}

	placeholders := make([]string, len(assetIDs))
	args := make([]interface{}, len(assetIDs))
	for i, id := range assetIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	q := fmt.Sprintf("SELECT asset_id, symbol, name, country_code, asset_type FROM assets WHERE asset_id IN (%s)", strings.Join(placeholders, ","))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := make(map[int64]models.Asset, len(assetIDs))
	for rows.Next() {
		var a models.Asset
		if err := rows.Scan(&a.AssetID, &a.Symbol, &a.Name, &a.CountryCode, &a.AssetType); err != nil {
			return nil, err
		}
		assets[a.AssetID] = a
	}
	return assets, rows.Err()
}

var (
	_ repository.HoldingsProvider = (*ClickHousePortfolioStore)(nil)
	_ repository.AssetCatalog     = (*ClickHousePortfolioStore)(nil)
	_ repository.PortfolioLister  = (*ClickHousePortfolioStore)(nil)
)
