package schema

// Category keys of the built-in network schema.
const (
	FinancialCategory         = "financial"
	OperationalCategory       = "operational"
	PatientExperienceCategory = "patientExperience"
	StaffingCategory          = "staffing"
)

// Default spreadsheet columns for location and date.
const (
	DefaultLocationColumn = "Clinic"
	DefaultDateColumn     = "Date"
)

// SampleClinics is the list of locations used by the sample generator.
var SampleClinics = []string{
	"Allerton Clinic",
	"Bronx Clinic",
	"Brooklyn Clinic",
	"Manhattan Clinic",
	"Queens Clinic",
	"Staten Island Clinic",
	"Westchester Clinic",
	"Long Island Clinic",
	"New Jersey Clinic",
	"Connecticut Clinic",
}

// DefaultSchema returns a fresh copy of the built-in clinic network schema.
func DefaultSchema() *Schema {
	return &Schema{
		LocationColumn: DefaultLocationColumn,
		DateColumn:     DefaultDateColumn,
		Categories: []CategoryDefinition{
			{
				Key:         FinancialCategory,
				Name:        "Financial Performance",
				Description: "Revenue, profitability, and financial efficiency metrics",
				Weight:      0.30,
				Metrics: []MetricDefinition{
					{Key: "netProfitPercent", Name: "Net Profit Margin %", Unit: "%", Column: "Net_Profit_Percent", Weight: 0.35, HigherIsBetter: true, Target: 15,
						Description: "Percentage of revenue remaining after all expenses"},
					{Key: "revenueCycle", Name: "Revenue Cycle Efficiency", Unit: "%", Column: "Revenue_Cycle_Efficiency", Weight: 0.25, HigherIsBetter: true, Target: 85,
						Description: "Efficiency of billing and collection processes"},
					{Key: "operatingExpenseRatio", Name: "Operating Expense Ratio", Unit: "%", Column: "Operating_Expense_Ratio", Weight: 0.25, HigherIsBetter: false, Target: 75,
						Description: "Operating expenses as percentage of revenue"},
					{Key: "payerMixOptimization", Name: "Payer Mix Optimization", Unit: "%", Column: "Payer_Mix_Optimization", Weight: 0.15, HigherIsBetter: true, Target: 80,
						Description: "Optimization of insurance payer mix for maximum reimbursement"},
				},
			},
			{
				Key:         OperationalCategory,
				Name:        "Operational Efficiency & Productivity",
				Description: "Efficiency, productivity, and operational excellence metrics",
				Weight:      0.35,
				Metrics: []MetricDefinition{
					{Key: "utilizationRate", Name: "Therapist Utilization Rate", Unit: "%", Column: "Therapist_Utilization_Rate", Weight: 0.20, HigherIsBetter: true, Target: 85,
						Description: "Percentage of available therapist time utilized for patient care"},
					{Key: "newPatientPercent", Name: "New Patient Acquisition %", Unit: "%", Column: "New_Patient_Percentage", Weight: 0.15, HigherIsBetter: true, Target: 20,
						Description: "Percentage of new patients relative to total patient volume"},
					{Key: "patientVisitAverage", Name: "Average Visits per Episode", Unit: "visits", Column: "Patient_Visit_Average", Weight: 0.15, HigherIsBetter: true, Target: 12,
						Description: "Average number of visits per patient episode of care"},
					{Key: "scheduleAdherence", Name: "Schedule Adherence Rate", Unit: "%", Column: "Schedule_Adherence_Rate", Weight: 0.20, HigherIsBetter: true, Target: 90,
						Description: "Percentage of scheduled appointments kept"},
					{Key: "documentationTimeliness", Name: "Documentation Compliance", Unit: "%", Column: "Documentation_Timeliness", Weight: 0.15, HigherIsBetter: true, Target: 95,
						Description: "Percentage of patient documentation completed within required timeframe"},
					{Key: "targetVisitsPercent", Name: "Visit Target Achievement", Unit: "%", Column: "Target_Visits_Achievement", Weight: 0.15, HigherIsBetter: true, Target: 90,
						Description: "Percentage of monthly visit targets achieved"},
				},
			},
			{
				Key:         PatientExperienceCategory,
				Name:        "Patient Experience & Outcomes",
				Description: "Patient satisfaction, outcomes, and experience quality metrics",
				Weight:      0.25,
				Metrics: []MetricDefinition{
					{Key: "patientSatisfactionScores", Name: "Patient Satisfaction Score", Unit: "%", Column: "Patient_Satisfaction_Score", Weight: 0.40, HigherIsBetter: true, Target: 90,
						Description: "Overall patient satisfaction rating from surveys"},
					{Key: "patientRetentionRate", Name: "Patient Retention Rate", Unit: "%", Column: "Patient_Retention_Rate", Weight: 0.35, HigherIsBetter: true, Target: 85,
						Description: "Percentage of patients completing their full treatment plan"},
					{Key: "patientComplaints", Name: "Patient Complaints Rate", Unit: "%", Column: "Patient_Complaints", Weight: 0.25, HigherIsBetter: false, Target: 5,
						Description: "Percentage of patients filing formal complaints"},
				},
			},
			{
				Key:         StaffingCategory,
				Name:        "Staffing & HR Metrics",
				Description: "Human resources, staff satisfaction, and retention metrics",
				Weight:      0.10,
				Metrics: []MetricDefinition{
					{Key: "turnoverRates", Name: "Staff Turnover Rate", Unit: "%", Column: "Staff_Turnover_Rate", Weight: 0.30, HigherIsBetter: false, Target: 15,
						Description: "Annual staff turnover rate"},
					{Key: "employeeEngagement", Name: "Employee Engagement Score", Unit: "%", Column: "Employee_Engagement", Weight: 0.25, HigherIsBetter: true, Target: 80,
						Description: "Employee engagement survey results"},
					{Key: "employeeSatisfaction", Name: "Employee Satisfaction Score", Unit: "%", Column: "Employee_Satisfaction", Weight: 0.25, HigherIsBetter: true, Target: 85,
						Description: "Overall employee satisfaction rating"},
					{Key: "employeeLifespan", Name: "Average Employee Tenure", Unit: "months", Column: "Employee_Tenure_Months", Weight: 0.20, HigherIsBetter: true, Target: 24,
						Description: "Average length of employment for current staff"},
				},
			},
		},
	}
}
