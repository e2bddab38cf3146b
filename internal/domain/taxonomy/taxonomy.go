// Package taxonomy holds the fixed commodity group table requests are classified into.
package taxonomy

import "strings"

// Version identifies the revision of the commodity table.
const Version = "2024.1"

// Entry is a single commodity group.
type Entry struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Group    string `json:"group"`
}

// Name returns the canonical display name.
func (e Entry) Name() string {
	return e.Category + " - " + e.Group
}

var entries = []Entry{
	{"001", "General Services", "Accommodation Rentals"},
	{"002", "General Services", "Membership Fees"},
	{"003", "General Services", "Workplace Safety"},
	{"004", "General Services", "Consulting"},
	{"005", "General Services", "Financial Services"},
	{"006", "General Services", "Fleet Management"},
	{"007", "General Services", "Recruitment Services"},
	{"008", "General Services", "Professional Development"},
	{"009", "General Services", "Miscellaneous Services"},
	{"010", "General Services", "Insurance"},
	{"011", "Facility Management", "Electrical Engineering"},
	{"012", "Facility Management", "Facility Management Services"},
	{"013", "Facility Management", "Security"},
	{"014", "Facility Management", "Renovations"},
	{"015", "Facility Management", "Office Equipment"},
	{"016", "Facility Management", "Energy Management"},
	{"017", "Facility Management", "Maintenance"},
	{"018", "Facility Management", "Cafeteria and Kitchenettes"},
	{"019", "Facility Management", "Cleaning"},
	{"020", "Publishing Production", "Audio and Visual Production"},
	{"021", "Publishing Production", "Books/Videos/CDs"},
	{"022", "Publishing Production", "Printing Costs"},
	{"023", "Publishing Production", "Software Development for Publishing"},
	{"024", "Publishing Production", "Material Costs"},
	{"025", "Publishing Production", "Shipping for Production"},
	{"026", "Publishing Production", "Digital Product Development"},
	{"027", "Publishing Production", "Pre-production"},
	{"028", "Publishing Production", "Post-production Costs"},
	{"029", "Information Technology", "Hardware"},
	{"030", "Information Technology", "IT Services"},
	{"031", "Information Technology", "Software"},
	{"032", "Logistics", "Courier, Express, and Postal Services"},
	{"033", "Logistics", "Warehousing and Material Handling"},
	{"034", "Transportation Logistics", "Transportation Logistics"},
	{"035", "Logistics", "Delivery Services"},
	{"036", "Marketing & Advertising", "Advertising"},
	{"037", "Marketing & Advertising", "Outdoor Advertising"},
	{"038", "Marketing & Advertising", "Marketing Agencies"},
	{"039", "Marketing & Advertising", "Direct Mail"},
	{"040", "Marketing & Advertising", "Customer Communication"},
	{"041", "Marketing & Advertising", "Online Marketing"},
	{"042", "Marketing & Advertising", "Events"},
	{"043", "Marketing & Advertising", "Promotional Materials"},
	{"044", "Production", "Warehouse and Operational Equipment"},
	{"045", "Production", "Production Machinery"},
	{"046", "Production", "Spare Parts"},
	{"047", "Production", "Internal Transportation"},
	{"048", "Production", "Production Materials"},
	{"049", "Production", "Consumables"},
	{"050", "Production", "Maintenance and Repairs"},
}

var byID = func() map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.ID] = e
	}
	return m
}()

// All returns a copy of every entry in id order.
func All() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Lookup finds an entry by its 3-digit id.
func Lookup(id string) (Entry, bool) {
	e, ok := byID[strings.TrimSpace(id)]
	return e, ok
}

// Contains reports whether id belongs to the table.
func Contains(id string) bool {
	_, ok := Lookup(id)
	return ok
}

// Text renders the table one entry per line as "id | category | group".
func Text() string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.ID)
		b.WriteString(" | ")
		b.WriteString(e.Category)
		b.WriteString(" | ")
		b.WriteString(e.Group)
	}
	return b.String()
}
