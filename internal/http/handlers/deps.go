package handlers

import (
	"plenapos/internal/services"
)

type Deps struct {
	ProductHandler  *ProductHandler
	SaleHandler     *SaleHandler
	RegisterHandler *RegisterHandler
	ReportHandler   *ReportHandler
	BackupHandler   *BackupHandler
	InsightHandler  *InsightHandler
}

func NewDeps(svc *services.Services) *Deps {
	return &Deps{
		ProductHandler:  &ProductHandler{Inventory: svc.Inventory},
		SaleHandler:     &SaleHandler{Checkout: svc.Checkout, Reports: svc.Reports},
		RegisterHandler: &RegisterHandler{Registers: svc.Registers},
		ReportHandler:   &ReportHandler{Reports: svc.Reports},
		BackupHandler:   &BackupHandler{Backup: svc.Backup},
		InsightHandler:  &InsightHandler{Insights: svc.Insights},
	}
}
