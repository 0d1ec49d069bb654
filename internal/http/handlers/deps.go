package handlers

import (
	"github.com/jmoiron/sqlx"

	"shopledger/internal/cache"
	"shopledger/internal/clock"
	"shopledger/internal/config"
	"shopledger/internal/repos"
	"shopledger/internal/services"
)

type Deps struct {
	DB    *sqlx.DB
	Auth  *services.AuthService
	Stock *services.StockService

	AuthHandler     *AuthHandler
	ProductHandler  *ProductHandler
	ListingHandler  *ListingHandler
	InterestHandler *InterestHandler
	SaleHandler     *SaleHandler
	ReportHandler   *ReportHandler
	CategoryHandler *CategoryHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, digest cache.DigestCache, clk clock.Clock) *Deps {
	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	interestRepo := repos.NewInterestRepo(db)
	saleRepo := repos.NewSaleRepo(db)
	catRepo := repos.NewCategoryRepo(db)

	authSvc := services.NewAuthService(userRepo)
	stockSvc := services.NewStockService(prodRepo, digest, clk)
	listingSvc := services.NewListingService(prodRepo, stockSvc, digest, clk)
	interestSvc := services.NewInterestService(authSvc, prodRepo, interestRepo, clk)
	saleSvc := services.NewSaleService(saleRepo, clk)
	reportSvc := services.NewReportService(saleRepo, clk)
	catSvc := services.NewCategoryService(catRepo, clk)

	return &Deps{
		DB:    db,
		Auth:  authSvc,
		Stock: stockSvc,

		AuthHandler:     &AuthHandler{Auth: authSvc, SecureCookie: cfg.Production()},
		ProductHandler:  &ProductHandler{Stock: stockSvc},
		ListingHandler:  &ListingHandler{Listing: listingSvc},
		InterestHandler: &InterestHandler{Interest: interestSvc},
		SaleHandler:     &SaleHandler{Sale: saleSvc},
		ReportHandler:   &ReportHandler{Report: reportSvc},
		CategoryHandler: &CategoryHandler{Cats: catSvc},
	}
}
