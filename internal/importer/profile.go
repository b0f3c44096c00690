package importer

// Profile describes the header layout of a charge sheet.
// Adding a format is adding an entry to profiles.
type Profile struct {
	Name      string
	Target    Target
	TargetCol string
	ChargeCol string
	AmountCol string
	NoteCol   string // optional
}

func (p Profile) requiredCols() []string {
	return []string{p.TargetCol, p.ChargeCol, p.AmountCol}
}

var profiles = []Profile{
	{
		Name:      "bill",
		Target:    TargetBill,
		TargetCol: "bill_id",
		ChargeCol: "charge",
		AmountCol: "amount",
		NoteCol:   "note",
	},
	{
		Name:      "tenancy",
		Target:    TargetTenancy,
		TargetCol: "tenancy_id",
		ChargeCol: "charge",
		AmountCol: "amount",
		NoteCol:   "note",
	},
}
