package domain

import "sort"

// VariantSpec holds the enumerations and catalogs of one record variant.
type VariantSpec struct {
	Variant        Variant
	IDPrefix       string
	Statuses       []Status
	Severities     []Severity
	InitialStatus  Status
	ResolvedStatus Status
	Categories     map[string][]string
	Systems        map[string]string
}

var incidentSpec = VariantSpec{
	Variant:        VariantIncident,
	IDPrefix:       "INC",
	Statuses:       []Status{StatusActive, StatusInvestigating, StatusMonitoring, StatusResolved},
	Severities:     []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow},
	InitialStatus:  StatusInvestigating,
	ResolvedStatus: StatusResolved,
	Categories: map[string][]string{
		"Performance":    {"Latency", "Throughput", "Resource Usage", "Timeout"},
		"Functional":     {"API Errors", "Data Corruption", "Feature Failure", "Integration"},
		"Security":       {"Breach", "Vulnerability", "Access Issues", "Audit"},
		"Infrastructure": {"Server Down", "Network", "Database", "Storage"},
	},
	Systems: map[string]string{
		"SYS-AUTH": "Authentication Service",
		"SYS-PAY":  "Payment Gateway",
		"SYS-NOT":  "Notification Service",
		"SYS-USER": "User Management",
		"SYS-API":  "Core API Gateway",
		"SYS-DB":   "Database Cluster",
		"SYS-CDN":  "Content Delivery Network",
	},
}

var ticketSpec = VariantSpec{
	Variant:        VariantTicket,
	IDPrefix:       "TKT",
	Statuses:       []Status{StatusUrgent, StatusEnCours, StatusAssigne, StatusResolu},
	Severities:     []Severity{PriorityCritique, PriorityHaute, PriorityNormale, PriorityBasse},
	InitialStatus:  StatusAssigne,
	ResolvedStatus: StatusResolu,
	Categories: map[string][]string{
		"Matériel": {"Poste de travail", "Imprimante", "Serveur", "Périphérique"},
		"Logiciel": {"Messagerie", "ERP", "Bureautique", "Licence"},
		"Réseau":   {"Wi-Fi", "VPN", "Câblage", "Téléphonie"},
		"Sécurité": {"Antivirus", "Accès", "Sauvegarde"},
	},
	Systems: map[string]string{},
}

// SpecFor returns the enumerations for v.
func SpecFor(v Variant) (VariantSpec, bool) {
	switch v {
	case VariantIncident:
		return incidentSpec, true
	case VariantTicket:
		return ticketSpec, true
	}
	return VariantSpec{}, false
}

// MustSpec is SpecFor for variants known at compile time.
func MustSpec(v Variant) VariantSpec {
	spec, ok := SpecFor(v)
	if !ok {
		panic("domain: unknown variant " + string(v))
	}
	return spec
}

func (s VariantSpec) ValidStatus(status Status) bool {
	for _, candidate := range s.Statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

func (s VariantSpec) ValidSeverity(severity Severity) bool {
	for _, candidate := range s.Severities {
		if candidate == severity {
			return true
		}
	}
	return false
}

// ServiceAllowed reports whether service belongs to category. An empty service is always
// allowed; categories outside the catalog carry no services.
func (s VariantSpec) ServiceAllowed(category, service string) bool {
	if service == "" {
		return true
	}
	for _, candidate := range s.Categories[category] {
		if candidate == service {
			return true
		}
	}
	return false
}

// CategoryNames returns the catalog categories in lexical order.
func (s VariantSpec) CategoryNames() []string {
	names := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SystemName resolves a known system id to its display name.
func (s VariantSpec) SystemName(id string) (string, bool) {
	name, ok := s.Systems[id]
	return name, ok
}
