package models

// All returns every persistence model, parents before children.
// Tests use it with AutoMigrate; production schemas come from migrations/.
func All() []any {
	return []any{
		&BrandModel{},
		&ManufacturerModel{},
		&CategoryModel{},
		&ProductModel{},
		&MarkupRuleModel{},
		&PricingHistoryModel{},
		&CustomerModel{},
		&ContactModel{},
		&LeadModel{},
		&LeadStatusChangeModel{},
		&RFPModel{},
		&SiteSurveyModel{},
		&ProposalModel{},
		&ProjectModel{},
		&ProjectAssignmentModel{},
	}
}
