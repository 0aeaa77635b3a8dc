package mapping

import (
	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	"github.com/vyaparbooks/voucher_engine_app/internal/models"
)

// ToModelItem converts a domain Item to a model Item
func ToModelItem(d domain.Item) models.Item {
	return models.Item{
		ItemID:         d.ItemID,
		CompanyID:      d.CompanyID,
		Name:           d.Name,
		Unit:           d.Unit,
		GSTRatePercent: d.GSTRatePercent,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainItem converts a model Item to a domain Item
func ToDomainItem(m models.Item) domain.Item {
	return domain.Item{
		ItemID:         m.ItemID,
		CompanyID:      m.CompanyID,
		Name:           m.Name,
		Unit:           m.Unit,
		GSTRatePercent: m.GSTRatePercent,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelWarehouse converts a domain Warehouse to a model Warehouse
func ToModelWarehouse(d domain.Warehouse) models.Warehouse {
	return models.Warehouse{
		WarehouseID: d.WarehouseID,
		CompanyID:   d.CompanyID,
		Name:        d.Name,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainWarehouse converts a model Warehouse to a domain Warehouse
func ToDomainWarehouse(m models.Warehouse) domain.Warehouse {
	return domain.Warehouse{
		WarehouseID: m.WarehouseID,
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
