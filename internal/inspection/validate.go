package inspection

var (
	ratings    = map[string]struct{}{RatingCritical: {}, RatingModerate: {}, RatingGood: {}}
	severities = map[string]struct{}{SeverityCritical: {}, SeverityModerate: {}, SeverityCleaning: {}}
	sides      = map[string]struct{}{SideLHS: {}, SideRHS: {}, SideBoth: {}}
	imageTypes = map[string]struct{}{ImageTypeBefore: {}, ImageTypeAfter: {}}
)

func validateEnum(field, value string, allowed map[string]struct{}) error {
	if value == "" {
		return &ValidationError{Field: field}
	}
	if _, ok := allowed[value]; !ok {
		return &ValidationError{Field: field, Value: value}
	}
	return nil
}

func (p *Project) validate() error {
	if p.Name == "" {
		return &ValidationError{Field: "name"}
	}
	if p.Location == "" {
		return &ValidationError{Field: "location"}
	}
	return nil
}

func (b *Bridge) validate() error {
	if b.Name == "" {
		return &ValidationError{Field: "name"}
	}
	return validateEnum("rating", b.Rating, ratings)
}

func (o *Observation) validate() error {
	if o.Title == "" {
		return &ValidationError{Field: "title"}
	}
	if err := validateEnum("severity", o.Severity, severities); err != nil {
		return err
	}
	return validateEnum("side", o.Side, sides)
}

func (img *ObservationImage) validate() error {
	if img.ImagePath == "" {
		return &ValidationError{Field: "image_path"}
	}
	if err := validateEnum("image_type", img.ImageType, imageTypes); err != nil {
		return err
	}
	return validateEnum("side", img.Side, sides)
}
