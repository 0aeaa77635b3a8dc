package mapping

import (
	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	"github.com/vyaparbooks/voucher_engine_app/internal/models"
)

// ToModelVoucherType converts a domain VoucherType to a model VoucherType
func ToModelVoucherType(d domain.VoucherType) models.VoucherType {
	return models.VoucherType{
		VoucherTypeID: d.VoucherTypeID,
		CompanyID:     d.CompanyID,
		Name:          d.Name,
		Category:      string(d.Category),
		IsActive:      d.IsActive,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVoucherType converts a model VoucherType to a domain VoucherType
func ToDomainVoucherType(m models.VoucherType) domain.VoucherType {
	return domain.VoucherType{
		VoucherTypeID: m.VoucherTypeID,
		CompanyID:     m.CompanyID,
		Name:          m.Name,
		Category:      domain.VoucherCategory(m.Category),
		IsActive:      m.IsActive,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelNumberingSeries converts a domain NumberingSeries to a model NumberingSeries
func ToModelNumberingSeries(d domain.NumberingSeries) models.NumberingSeries {
	return models.NumberingSeries{
		SeriesID:       d.SeriesID,
		VoucherTypeID:  d.VoucherTypeID,
		Prefix:         d.Prefix,
		Method:         string(d.Method),
		CurrentCounter: d.CurrentCounter,
		IsDefault:      d.IsDefault,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainNumberingSeries converts a model NumberingSeries to a domain NumberingSeries
func ToDomainNumberingSeries(m models.NumberingSeries) domain.NumberingSeries {
	return domain.NumberingSeries{
		SeriesID:       m.SeriesID,
		VoucherTypeID:  m.VoucherTypeID,
		Prefix:         m.Prefix,
		Method:         domain.NumberingMethod(m.Method),
		CurrentCounter: m.CurrentCounter,
		IsDefault:      m.IsDefault,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
