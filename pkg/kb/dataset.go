package kb

import (
	"github.com/soundprediction/triago/pkg/store"
	"github.com/soundprediction/triago/pkg/types"
)

// Builtin returns the compiled-in hospital emergency knowledge base:
// response protocols, the supplies, equipment, and staff they depend on,
// hospital departments, treatable conditions, supply vendors, and nearby
// hospitals for overflow escalation.
//
// Medication nodes with dose-critical names (the epinephrine dilutions)
// are flagged ExactMatchRequired so they can never surface through fuzzy
// matching.
func Builtin() (*store.Store, error) {
	return store.NewStore(builtinNodes(), builtinEdges())
}

func node(id string, nodeType types.NodeType, name, description string, aliases ...string) *types.Node {
	n := &types.Node{ID: id, Name: name, Type: nodeType, Aliases: aliases}
	if description != "" {
		n.Properties = map[string]interface{}{"description": description}
	}
	return n
}

func with(n *types.Node, key string, value interface{}) *types.Node {
	if n.Properties == nil {
		n.Properties = map[string]interface{}{}
	}
	n.Properties[key] = value
	return n
}

func guarded(n *types.Node) *types.Node {
	n.ExactMatchRequired = true
	return n
}

func edge(source string, edgeType types.EdgeType, target string, weight float64) *types.Edge {
	return &types.Edge{SourceID: source, TargetID: target, Type: edgeType, Weight: weight}
}

func builtinNodes() []*types.Node {
	return []*types.Node{
		// Protocols
		with(node("mass-casualty-protocol", types.NodeTypeProtocol,
			"Mass Casualty Incident Protocol",
			"Hospital-wide surge response for incidents with 10 or more expected casualties",
			"code orange", "MCI protocol"), "activation", "code orange"),
		with(node("chemical-spill-protocol", types.NodeTypeProtocol,
			"Chemical Spill Response Protocol",
			"Containment, decontamination, and casualty handling for hazardous material releases",
			"hazmat protocol"), "severity", "critical"),
		node("fire-response-protocol", types.NodeTypeProtocol,
			"Fire Response Protocol",
			"Burn and smoke-inhalation casualty handling for structural fires",
			"code red"),
		node("cardiac-arrest-protocol", types.NodeTypeProtocol,
			"Cardiac Arrest Protocol",
			"Resuscitation sequence for in-hospital and incoming cardiac arrest",
			"code blue"),
		node("gas-leak-protocol", types.NodeTypeProtocol,
			"Gas Leak Response Protocol",
			"Mass asphyxiation and respiratory failure response for toxic gas exposure"),
		node("epidemic-response-protocol", types.NodeTypeProtocol,
			"Epidemic Outbreak Response Protocol",
			"Isolation, cohorting, and staff protection for infectious disease outbreaks"),
		node("triage-protocol", types.NodeTypeProtocol,
			"Field Triage Protocol",
			"START triage for sorting casualties by treatment priority at intake"),

		// Supplies
		with(with(guarded(node("epinephrine-1-10000", types.NodeTypeSupply,
			"Epinephrine 1:10000",
			"IV push dilution for cardiac resuscitation",
			"epi 1:10000")), "form", "IV"), "stock_units", 40),
		with(with(guarded(node("epinephrine-1-1000", types.NodeTypeSupply,
			"Epinephrine 1:1000",
			"IM dilution for anaphylaxis, never IV push",
			"epi 1:1000")), "form", "IM"), "stock_units", 60),
		with(node("oxygen-cylinders", types.NodeTypeSupply,
			"Oxygen Cylinders",
			"Portable O2 for transport and surge wards",
			"o2 cylinders"), "stock_units", 120),
		with(node("blood-o-negative", types.NodeTypeSupply,
			"O-Negative Blood Units",
			"Universal donor blood for uncrossmatched transfusion",
			"universal donor blood"), "stock_units", 35),
		node("saline-iv", types.NodeTypeSupply,
			"Saline IV Bags",
			"Normal saline for fluid resuscitation",
			"normal saline"),
		node("burn-dressings", types.NodeTypeSupply,
			"Burn Dressings",
			"Sterile non-adherent dressings for thermal and chemical burns"),
		node("activated-charcoal", types.NodeTypeSupply,
			"Activated Charcoal",
			"Oral adsorbent for ingestion poisoning"),
		node("n95-respirators", types.NodeTypeSupply,
			"N95 Respirators",
			"Staff respiratory protection for airborne pathogens",
			"n95 masks"),

		// Equipment
		with(node("ventilators", types.NodeTypeEquipment,
			"Ventilator",
			"Mechanical ventilation for respiratory failure",
			"mechanical ventilator"), "available", 18),
		with(node("hazmat-suits", types.NodeTypeEquipment,
			"HAZMAT Suit",
			"Level B chemical protective suits for decontamination staff",
			"hazmat gear"), "available", 24),
		node("defibrillators", types.NodeTypeEquipment,
			"Defibrillator",
			"Manual and automated external defibrillators",
			"AED"),
		node("decon-shower", types.NodeTypeEquipment,
			"Decontamination Shower",
			"Fixed decontamination line at the ambulance bay"),
		node("patient-monitors", types.NodeTypeEquipment,
			"Patient Monitor",
			"Bedside vitals monitoring"),
		node("stretchers", types.NodeTypeEquipment,
			"Stretchers",
			"Transport stretchers for surge intake"),

		// Staff roles
		with(node("decon-team", types.NodeTypeStaffRole,
			"Decontamination Team",
			"Trained responders who run the decontamination line"), "on_call", 8),
		node("trauma-surgeons", types.NodeTypeStaffRole,
			"Trauma Surgeon",
			"Surgical response for penetrating and blunt trauma"),
		node("burn-specialists", types.NodeTypeStaffRole,
			"Burn Specialist",
			"Burn assessment and escharotomy capability"),
		node("respiratory-therapists", types.NodeTypeStaffRole,
			"Respiratory Therapist",
			"Airway and ventilator management"),
		node("triage-nurses", types.NodeTypeStaffRole,
			"Triage Nurse",
			"Intake sorting and acuity assignment"),
		node("infection-control-team", types.NodeTypeStaffRole,
			"Infection Control Team",
			"Isolation enforcement and exposure tracking"),

		// Departments
		node("emergency-room", types.NodeTypeDepartment,
			"Emergency Room",
			"Primary casualty intake",
			"ER", "casualty"),
		node("icu", types.NodeTypeDepartment,
			"Intensive Care Unit",
			"Critical care beds with ventilator support",
			"ICU"),
		node("burn-unit", types.NodeTypeDepartment,
			"Burn Unit",
			"Specialized burn care and grafting"),
		node("toxicology", types.NodeTypeDepartment,
			"Toxicology",
			"Poisoning and chemical exposure management"),
		node("pulmonology", types.NodeTypeDepartment,
			"Pulmonology",
			"Respiratory medicine"),
		node("trauma-center", types.NodeTypeDepartment,
			"Trauma Center",
			"Level 1 trauma care",
			"trauma"),
		node("infectious-disease", types.NodeTypeDepartment,
			"Infectious Disease Ward",
			"Isolation rooms and outbreak cohorting"),
		node("cardiology", types.NodeTypeDepartment,
			"Cardiology",
			"Cardiac care and catheterization"),

		// Conditions
		node("chemical-burns", types.NodeTypeCondition,
			"Chemical Burns",
			"Tissue damage from corrosive or reactive chemical exposure"),
		node("smoke-inhalation", types.NodeTypeCondition,
			"Smoke Inhalation",
			"Airway injury from combustion products"),
		node("respiratory-distress", types.NodeTypeCondition,
			"Respiratory Distress",
			"Acute breathing difficulty requiring airway support"),
		node("crush-injuries", types.NodeTypeCondition,
			"Crush Injuries",
			"Compression trauma with rhabdomyolysis risk"),
		node("fractures", types.NodeTypeCondition,
			"Fractures",
			"Closed and open bone fractures"),
		node("cardiac-arrest", types.NodeTypeCondition,
			"Cardiac Arrest",
			"Loss of cardiac output requiring immediate resuscitation"),
		node("poisoning", types.NodeTypeCondition,
			"Poisoning",
			"Toxic ingestion or absorption"),
		node("thermal-burns", types.NodeTypeCondition,
			"Thermal Burns",
			"Heat injury to skin and airway",
			"burns"),

		// Vendors
		with(with(with(node("vendor-oxygen", types.NodeTypeVendor,
			"Delhi Oxygen Supplies",
			"Bulk and cylinder oxygen supplier"),
			"response_time_minutes", 30), "reliability", 0.95), "contact", "+91-11-2345-6789"),
		with(with(with(node("vendor-blood", types.NodeTypeVendor,
			"Central Blood Bank",
			"Regional blood bank, 500 units per day"),
			"response_time_minutes", 45), "reliability", 0.92), "contact", "+91-11-3456-7890"),
		with(with(with(node("vendor-meds", types.NodeTypeVendor,
			"PharmaCare Express",
			"Full formulary medication supplier"),
			"response_time_minutes", 60), "reliability", 0.88), "contact", "+91-11-4567-8901"),
		with(with(with(node("vendor-equipment", types.NodeTypeVendor,
			"MedEquip Rentals",
			"Ventilators, monitors, and bed rentals"),
			"response_time_minutes", 120), "reliability", 0.85), "contact", "+91-11-5678-9012"),
		with(with(with(node("vendor-ambulance", types.NodeTypeVendor,
			"Delhi EMS Network",
			"Ambulance fleet dispatch, 50 vehicles"),
			"response_time_minutes", 15), "reliability", 0.97), "contact", "102"),

		// Nearby hospitals
		with(with(node("safdarjung", types.NodeTypeHospital,
			"Safdarjung Hospital",
			"Trauma, burns, and cardiology; 1500 beds"),
			"distance_km", 5.2), "available_beds", 45),
		with(with(node("aiims", types.NodeTypeHospital,
			"AIIMS Delhi",
			"Neurology, cardiology, oncology, trauma; 2500 beds"),
			"distance_km", 5.5), "available_beds", 80),
		with(with(node("rml", types.NodeTypeHospital,
			"RML Hospital",
			"General surgery, orthopedics, emergency; 800 beds"),
			"distance_km", 2.1), "available_beds", 25),
		with(with(node("gtb", types.NodeTypeHospital,
			"GTB Hospital",
			"Trauma, burns, pediatrics; 1800 beds"),
			"distance_km", 12.5), "available_beds", 60),
		with(with(node("lnjp", types.NodeTypeHospital,
			"LNJP Hospital",
			"Infectious disease, pulmonology, emergency; 2000 beds"),
			"distance_km", 3.8), "available_beds", 55),
	}
}

func builtinEdges() []*types.Edge {
	return []*types.Edge{
		// Chemical spill response
		edge("chemical-spill-protocol", types.EdgeTypeRequires, "hazmat-suits", 0.9),
		edge("chemical-spill-protocol", types.EdgeTypeRequires, "decon-shower", 0.85),
		edge("chemical-spill-protocol", types.EdgeTypeRequires, "activated-charcoal", 0.6),
		edge("chemical-spill-protocol", types.EdgeTypeStaffedBy, "decon-team", 0.9),
		edge("chemical-spill-protocol", types.EdgeTypeRelatedTo, "toxicology", 0.7),

		// Fire response
		edge("fire-response-protocol", types.EdgeTypeRequires, "burn-dressings", 0.9),
		edge("fire-response-protocol", types.EdgeTypeRequires, "oxygen-cylinders", 0.8),
		edge("fire-response-protocol", types.EdgeTypeStaffedBy, "burn-specialists", 0.85),
		edge("fire-response-protocol", types.EdgeTypeRelatedTo, "burn-unit", 0.8),

		// Cardiac arrest
		edge("cardiac-arrest-protocol", types.EdgeTypeRequires, "epinephrine-1-10000", 0.95),
		edge("cardiac-arrest-protocol", types.EdgeTypeRequires, "defibrillators", 0.95),
		edge("cardiac-arrest-protocol", types.EdgeTypeRelatedTo, "cardiology", 0.8),

		// Mass casualty surge
		edge("mass-casualty-protocol", types.EdgeTypeRequires, "stretchers", 0.85),
		edge("mass-casualty-protocol", types.EdgeTypeRequires, "blood-o-negative", 0.9),
		edge("mass-casualty-protocol", types.EdgeTypeRequires, "saline-iv", 0.8),
		edge("mass-casualty-protocol", types.EdgeTypeStaffedBy, "triage-nurses", 0.9),
		edge("mass-casualty-protocol", types.EdgeTypeStaffedBy, "trauma-surgeons", 0.85),
		edge("mass-casualty-protocol", types.EdgeTypeRelatedTo, "emergency-room", 0.9),
		edge("mass-casualty-protocol", types.EdgeTypeEscalatesTo, "safdarjung", 0.6),
		edge("mass-casualty-protocol", types.EdgeTypeEscalatesTo, "aiims", 0.6),

		// Gas leak
		edge("gas-leak-protocol", types.EdgeTypeRequires, "oxygen-cylinders", 0.9),
		edge("gas-leak-protocol", types.EdgeTypeRequires, "ventilators", 0.8),
		edge("gas-leak-protocol", types.EdgeTypeStaffedBy, "respiratory-therapists", 0.85),
		edge("gas-leak-protocol", types.EdgeTypeRelatedTo, "pulmonology", 0.8),

		// Epidemic outbreak
		edge("epidemic-response-protocol", types.EdgeTypeRequires, "n95-respirators", 0.95),
		edge("epidemic-response-protocol", types.EdgeTypeStaffedBy, "infection-control-team", 0.9),
		edge("epidemic-response-protocol", types.EdgeTypeRelatedTo, "infectious-disease", 0.85),

		// Triage
		edge("triage-protocol", types.EdgeTypeStaffedBy, "triage-nurses", 0.95),
		edge("triage-protocol", types.EdgeTypeRelatedTo, "emergency-room", 0.85),

		// Conditions to protocols and departments
		edge("chemical-burns", types.EdgeTypeTreatedBy, "chemical-spill-protocol", 0.85),
		edge("chemical-burns", types.EdgeTypeRelatedTo, "burn-unit", 0.7),
		edge("smoke-inhalation", types.EdgeTypeTreatedBy, "fire-response-protocol", 0.8),
		edge("smoke-inhalation", types.EdgeTypeRelatedTo, "pulmonology", 0.75),
		edge("respiratory-distress", types.EdgeTypeTreatedBy, "gas-leak-protocol", 0.6),
		edge("respiratory-distress", types.EdgeTypeRelatedTo, "pulmonology", 0.8),
		edge("crush-injuries", types.EdgeTypeTreatedBy, "mass-casualty-protocol", 0.7),
		edge("crush-injuries", types.EdgeTypeRelatedTo, "trauma-center", 0.8),
		edge("fractures", types.EdgeTypeRelatedTo, "trauma-center", 0.75),
		edge("cardiac-arrest", types.EdgeTypeTreatedBy, "cardiac-arrest-protocol", 0.95),
		edge("cardiac-arrest", types.EdgeTypeRelatedTo, "cardiology", 0.8),
		edge("poisoning", types.EdgeTypeTreatedBy, "chemical-spill-protocol", 0.6),
		edge("poisoning", types.EdgeTypeRelatedTo, "toxicology", 0.85),
		edge("thermal-burns", types.EdgeTypeTreatedBy, "fire-response-protocol", 0.85),
		edge("thermal-burns", types.EdgeTypeRelatedTo, "burn-unit", 0.85),

		// Staff home departments
		edge("decon-team", types.EdgeTypeLocatedIn, "toxicology", 0.7),
		edge("burn-specialists", types.EdgeTypeLocatedIn, "burn-unit", 0.8),
		edge("trauma-surgeons", types.EdgeTypeLocatedIn, "trauma-center", 0.8),
		edge("respiratory-therapists", types.EdgeTypeLocatedIn, "pulmonology", 0.8),
		edge("triage-nurses", types.EdgeTypeLocatedIn, "emergency-room", 0.85),
		edge("infection-control-team", types.EdgeTypeLocatedIn, "infectious-disease", 0.8),

		// Supply chains
		edge("oxygen-cylinders", types.EdgeTypeSuppliedBy, "vendor-oxygen", 0.9),
		edge("blood-o-negative", types.EdgeTypeSuppliedBy, "vendor-blood", 0.9),
		edge("epinephrine-1-10000", types.EdgeTypeSuppliedBy, "vendor-meds", 0.85),
		edge("epinephrine-1-1000", types.EdgeTypeSuppliedBy, "vendor-meds", 0.85),
		edge("saline-iv", types.EdgeTypeSuppliedBy, "vendor-meds", 0.8),
		edge("activated-charcoal", types.EdgeTypeSuppliedBy, "vendor-meds", 0.8),
		edge("burn-dressings", types.EdgeTypeSuppliedBy, "vendor-meds", 0.75),
		edge("n95-respirators", types.EdgeTypeSuppliedBy, "vendor-equipment", 0.7),
		edge("ventilators", types.EdgeTypeSuppliedBy, "vendor-equipment", 0.85),
		edge("defibrillators", types.EdgeTypeSuppliedBy, "vendor-equipment", 0.8),
		edge("patient-monitors", types.EdgeTypeSuppliedBy, "vendor-equipment", 0.8),
		edge("stretchers", types.EdgeTypeSuppliedBy, "vendor-ambulance", 0.6),

		// Equipment locations
		edge("hazmat-suits", types.EdgeTypeLocatedIn, "emergency-room", 0.6),
		edge("ventilators", types.EdgeTypeLocatedIn, "icu", 0.8),
		edge("defibrillators", types.EdgeTypeLocatedIn, "emergency-room", 0.8),
		edge("decon-shower", types.EdgeTypeLocatedIn, "emergency-room", 0.7),

		// Overflow escalation to nearby hospitals
		edge("emergency-room", types.EdgeTypeEscalatesTo, "rml", 0.7),
		edge("emergency-room", types.EdgeTypeEscalatesTo, "lnjp", 0.65),
		edge("icu", types.EdgeTypeEscalatesTo, "aiims", 0.6),
		edge("burn-unit", types.EdgeTypeEscalatesTo, "safdarjung", 0.7),
		edge("burn-unit", types.EdgeTypeEscalatesTo, "gtb", 0.65),
		edge("infectious-disease", types.EdgeTypeEscalatesTo, "lnjp", 0.7),
	}
}
