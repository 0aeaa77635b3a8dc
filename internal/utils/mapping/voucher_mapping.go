package mapping

import (
	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	"github.com/vyaparbooks/voucher_engine_app/internal/models"
)

// ToModelVoucher converts a domain Voucher to a model Voucher
func ToModelVoucher(d domain.Voucher) models.Voucher {
	m := models.Voucher{
		VoucherID:          d.VoucherID,
		CompanyID:          d.CompanyID,
		VoucherTypeID:      d.VoucherTypeID,
		Category:           string(d.Category),
		VoucherDate:        d.VoucherDate,
		Reference:          d.Reference,
		Narration:          d.Narration,
		PlaceOfSupply:      d.PlaceOfSupply,
		Status:             string(d.Status),
		TotalAmount:        d.TotalAmount,
		OriginalVoucherID:  d.OriginalVoucherID,
		ReversingVoucherID: d.ReversingVoucherID,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
	if d.SeriesID != "" {
		m.SeriesID = &d.SeriesID
	}
	if d.VoucherNumber != "" {
		m.VoucherNumber = &d.VoucherNumber
	}
	if d.PartyLedgerID != "" {
		m.PartyLedgerID = &d.PartyLedgerID
	}
	return m
}

// ToDomainVoucher converts a model Voucher to a domain Voucher
func ToDomainVoucher(m models.Voucher) domain.Voucher {
	d := domain.Voucher{
		VoucherID:          m.VoucherID,
		CompanyID:          m.CompanyID,
		VoucherTypeID:      m.VoucherTypeID,
		Category:           domain.VoucherCategory(m.Category),
		VoucherDate:        m.VoucherDate,
		Reference:          m.Reference,
		Narration:          m.Narration,
		PlaceOfSupply:      m.PlaceOfSupply,
		Status:             domain.VoucherStatus(m.Status),
		TotalAmount:        m.TotalAmount,
		OriginalVoucherID:  m.OriginalVoucherID,
		ReversingVoucherID: m.ReversingVoucherID,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
	if m.SeriesID != nil {
		d.SeriesID = *m.SeriesID
	}
	if m.VoucherNumber != nil {
		d.VoucherNumber = *m.VoucherNumber
	}
	if m.PartyLedgerID != nil {
		d.PartyLedgerID = *m.PartyLedgerID
	}
	return d
}

// ToModelVoucherEntry converts a domain VoucherEntry to a model VoucherEntry
func ToModelVoucherEntry(d domain.VoucherEntry) models.VoucherEntry {
	return models.VoucherEntry{
		EntryID:     d.EntryID,
		VoucherID:   d.VoucherID,
		LedgerID:    d.LedgerID,
		EntryType:   string(d.EntryType),
		Amount:      d.Amount,
		Narration:   d.Narration,
		CostCenter:  d.CostCenter,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVoucherEntry converts a model VoucherEntry to a domain VoucherEntry
func ToDomainVoucherEntry(m models.VoucherEntry) domain.VoucherEntry {
	return domain.VoucherEntry{
		EntryID:     m.EntryID,
		VoucherID:   m.VoucherID,
		LedgerID:    m.LedgerID,
		EntryType:   domain.EntryType(m.EntryType),
		Amount:      m.Amount,
		Narration:   m.Narration,
		CostCenter:  m.CostCenter,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBillReference converts a domain BillReference to a model BillReference
func ToModelBillReference(d domain.BillReference) models.BillReference {
	return models.BillReference{
		BillRefID:     d.BillRefID,
		EntryID:       d.EntryID,
		Reference:     d.Reference,
		Amount:        d.Amount,
		ReferenceType: string(d.ReferenceType),
		DueDate:       d.DueDate,
		Remarks:       d.Remarks,
	}
}

// ToDomainBillReference converts a model BillReference to a domain BillReference
func ToDomainBillReference(m models.BillReference) domain.BillReference {
	return domain.BillReference{
		BillRefID:     m.BillRefID,
		EntryID:       m.EntryID,
		Reference:     m.Reference,
		Amount:        m.Amount,
		ReferenceType: domain.BillReferenceType(m.ReferenceType),
		DueDate:       m.DueDate,
		Remarks:       m.Remarks,
	}
}

// ToModelInventoryLine converts a domain InventoryLine to a model InventoryLine
func ToModelInventoryLine(d domain.InventoryLine) models.InventoryLine {
	return models.InventoryLine{
		LineID:         d.LineID,
		VoucherID:      d.VoucherID,
		ItemID:         d.ItemID,
		WarehouseID:    d.WarehouseID,
		Quantity:       d.Quantity,
		Rate:           d.Rate,
		DiscountAmount: d.DiscountAmount,
		GSTRatePercent: d.GSTRatePercent,
		LineAmount:     d.LineAmount,
		TaxAmount:      d.TaxAmount,
		CGSTAmount:     d.CGSTAmount,
		SGSTAmount:     d.SGSTAmount,
		IGSTAmount:     d.IGSTAmount,
	}
}

// ToDomainInventoryLine converts a model InventoryLine to a domain InventoryLine
func ToDomainInventoryLine(m models.InventoryLine) domain.InventoryLine {
	return domain.InventoryLine{
		LineID:         m.LineID,
		VoucherID:      m.VoucherID,
		ItemID:         m.ItemID,
		WarehouseID:    m.WarehouseID,
		Quantity:       m.Quantity,
		Rate:           m.Rate,
		DiscountAmount: m.DiscountAmount,
		GSTRatePercent: m.GSTRatePercent,
		LineAmount:     m.LineAmount,
		TaxAmount:      m.TaxAmount,
		CGSTAmount:     m.CGSTAmount,
		SGSTAmount:     m.SGSTAmount,
		IGSTAmount:     m.IGSTAmount,
	}
}
