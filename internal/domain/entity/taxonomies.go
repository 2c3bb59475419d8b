package entity

// ThreeClassTaxonomy модель normal / moderate_acute_malnutrition / stunting.
// Порог единый, 0.6 для всех классов.
func ThreeClassTaxonomy() Taxonomy {
	return Taxonomy{
		Name:       TaxonomyThreeClass,
		Classes:    []ClassLabel{ClassModerateAcute, ClassNormal, ClassStunting},
		Thresholds: Thresholds{Uniform: DefaultThreshold},
		Severities: map[ClassLabel]Severity{
			ClassModerateAcute: SeverityModerate,
			ClassNormal:        SeverityNormal,
			ClassStunting:      SeverityChronic,
		},
		Advice: map[ClassLabel]Advice{
			ClassNormal: {
				Description: "Normal nutritional status detected",
				Actions: []string{
					"Continue maintaining healthy nutrition",
					"Keep a balanced and diverse diet",
					"Regular growth monitoring recommended",
				},
			},
			ClassModerateAcute: {
				Description: "Signs of moderate malnutrition detected",
				Actions: []string{
					"Nutrition counseling",
					"Dietary assessment",
					"Regular weight and height monitoring",
					"Professional consultation",
				},
			},
			ClassStunting: {
				Description: "Signs of stunting (chronic malnutrition) detected",
				Actions: []string{
					"Long-term nutrition intervention",
					"Growth monitoring",
					"Address underlying causes",
					"Professional medical consultation",
				},
			},
		},
	}
}

// SevenClassTaxonomy расширенная модель с порогами ВОЗ по классам.
func SevenClassTaxonomy() Taxonomy {
	return Taxonomy{
		Name: TaxonomySevenClass,
		Classes: []ClassLabel{
			ClassSevereAcute,
			ClassModerateAcute,
			ClassMild,
			ClassStunting,
			ClassNormal,
			ClassOverweight,
			ClassObesity,
		},
		Thresholds: Thresholds{
			Uniform: DefaultThreshold,
			PerClass: map[ClassLabel]float32{
				ClassSevereAcute:   0.85,
				ClassModerateAcute: 0.75,
				ClassMild:          0.65,
				ClassStunting:      0.70,
				ClassNormal:        0.80,
				ClassOverweight:    0.75,
				ClassObesity:       0.85,
			},
		},
		Severities: map[ClassLabel]Severity{
			ClassSevereAcute:   SeveritySevere,
			ClassModerateAcute: SeverityModerate,
			ClassObesity:       SeverityModerate,
			ClassMild:          SeverityMild,
			ClassOverweight:    SeverityMild,
			ClassStunting:      SeverityChronic,
			ClassNormal:        SeverityNormal,
		},
		Advice: map[ClassLabel]Advice{
			ClassSevereAcute: {
				Description: "Severe Acute Malnutrition (SAM) detected",
				Actions: []string{
					"Immediate medical attention required",
					"Start therapeutic feeding program immediately",
					"Refer to specialized nutrition center",
					"Monitor for complications",
					"Measure MUAC and weight-for-height z-score",
				},
			},
			ClassModerateAcute: {
				Description: "Moderate Acute Malnutrition (MAM) detected",
				Actions: []string{
					"Moderate malnutrition requires intervention",
					"Start supplementary feeding program",
					"Monitor weight and height regularly",
					"Provide nutrition education",
					"Measure anthropometric indicators",
				},
			},
			ClassMild: {
				Description: "Mild malnutrition detected",
				Actions: []string{
					"Monitor nutritional status closely",
					"Provide balanced nutrition guidance",
					"Encourage diverse food intake",
					"Regular follow-up assessments",
				},
			},
			ClassStunting: {
				Description: "Stunting (chronic malnutrition) detected",
				Actions: []string{
					"Chronic malnutrition - long-term intervention needed",
					"Focus on catch-up growth nutrition",
					"Address underlying causes",
					"Regular height monitoring",
					"Age-appropriate nutrition support",
				},
			},
			ClassNormal: {
				Description: "Normal nutritional status",
				Actions: []string{
					"Maintain healthy nutritional status",
					"Continue balanced diet",
					"Regular health monitoring",
					"Prevent malnutrition through good nutrition",
				},
			},
			ClassOverweight: {
				Description: "Overweight detected",
				Actions: []string{
					"Address overweight through healthy lifestyle",
					"Balance calorie intake and expenditure",
					"Increase physical activity",
					"Focus on nutrient-dense foods",
					"Regular BMI monitoring",
				},
			},
			ClassObesity: {
				Description: "Obesity detected",
				Actions: []string{
					"Obesity requires comprehensive intervention",
					"Medical supervision recommended",
					"Structured weight management program",
					"Lifestyle modification support",
					"Regular health monitoring",
				},
			},
		},
	}
}
