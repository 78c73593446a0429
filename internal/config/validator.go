package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/go-playground/validator/v10"
)

// Top-level sections that are preserved but never interpreted, so they do
// not deserve an unknown-section warning.
var passthroughSections = map[string]bool{
	"parts": true,
	"seeds": true,
}

// Validate checks the document for structural problems and broken
// references. Advisory findings are flagged informal; callers decide whether
// to surface or merely log them.
func (d *Document) Validate() ValidationErrors {
	var validationErrors ValidationErrors

	validationErrors = append(validationErrors, d.validateLayers()...)
	validationErrors = append(validationErrors, d.validateCaches()...)
	validationErrors = append(validationErrors, d.validateSources()...)
	validationErrors = append(validationErrors, d.validateGrids()...)

	for _, section := range slices.Sorted(maps.Keys(d.Extra)) {
		if passthroughSections[section] {
			continue
		}
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: section,
			Message:   fmt.Sprintf("unknown section: %s", section),
			Informal:  true,
		})
	}

	return validationErrors
}

func (d *Document) validateLayers() ValidationErrors {
	var validationErrors ValidationErrors

	seenNames := make(map[string]bool)
	for i, layer := range d.Layers {
		itemName := fmt.Sprintf("layers[%d]", i)
		if layer == nil {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: fmt.Sprintf("layers.%d", i),
				Message:   "layer must be a mapping",
			})
			continue
		}
		if layer.Name != "" {
			itemName = layer.Name
		}

		// Validate struct fields
		if err := validate.Struct(layer); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, fmt.Sprintf("layers.%d", i), itemName)...)
		}

		// Check duplicate layer name
		if layer.Name != "" {
			if seenNames[layer.Name] {
				validationErrors = append(validationErrors, ValidationError{
					ItemName:  itemName,
					FieldPath: fmt.Sprintf("layers.%d.name", i),
					Message:   fmt.Sprintf("duplicate layer name: %s", layer.Name),
				})
			}
			seenNames[layer.Name] = true
		}

		if len(layer.Sources) == 0 {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: fmt.Sprintf("layers.%d.sources", i),
				Message:   "layer needs at least one source",
			})
		}

		// Layer sources may reference caches or sources
		for _, ref := range layer.Sources {
			if _, ok := d.Caches[ref]; ok {
				continue
			}
			if _, ok := d.Sources[ref]; ok {
				continue
			}
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: fmt.Sprintf("layers.%d.sources", i),
				Message:   fmt.Sprintf("unknown source: %s", ref),
			})
		}

		if layer.Title == "" {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: fmt.Sprintf("layers.%d.title", i),
				Message:   "layer has no title",
				Informal:  true,
			})
		}
	}

	return validationErrors
}

func (d *Document) validateCaches() ValidationErrors {
	var validationErrors ValidationErrors

	for _, name := range slices.Sorted(maps.Keys(d.Caches)) {
		cache := d.Caches[name]
		if cache == nil {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  name,
				FieldPath: fmt.Sprintf("caches.%s", name),
				Message:   "cache must be a mapping",
			})
			continue
		}

		// Validate struct fields
		if err := validate.Struct(cache); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, fmt.Sprintf("caches.%s", name), name)...)
		}

		// Cache sources may reference sources or other caches
		for _, ref := range cache.Sources {
			if _, ok := d.Sources[ref]; ok {
				continue
			}
			if _, ok := d.Caches[ref]; ok {
				continue
			}
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  name,
				FieldPath: fmt.Sprintf("caches.%s.sources", name),
				Message:   fmt.Sprintf("unknown source: %s", ref),
			})
		}

		for _, ref := range cache.Grids {
			if d.HasGrid(ref) {
				continue
			}
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  name,
				FieldPath: fmt.Sprintf("caches.%s.grids", name),
				Message:   fmt.Sprintf("unknown grid: %s", ref),
			})
		}
	}

	return validationErrors
}

func (d *Document) validateSources() ValidationErrors {
	var validationErrors ValidationErrors

	for _, name := range slices.Sorted(maps.Keys(d.Sources)) {
		source := d.Sources[name]
		if source == nil {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  name,
				FieldPath: fmt.Sprintf("sources.%s", name),
				Message:   "source must be a mapping",
			})
			continue
		}

		if err := validate.Struct(source); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, fmt.Sprintf("sources.%s", name), name)...)
		}
	}

	return validationErrors
}

func (d *Document) validateGrids() ValidationErrors {
	var validationErrors ValidationErrors

	for _, name := range slices.Sorted(maps.Keys(d.Grids)) {
		grid := d.Grids[name]
		if grid == nil {
			continue
		}
		if grid.Base != "" && !d.HasGrid(grid.Base) {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  name,
				FieldPath: fmt.Sprintf("grids.%s.base", name),
				Message:   fmt.Sprintf("unknown grid: %s", grid.Base),
			})
		}
	}

	return validationErrors
}

// convertValidatorErrors converts go-playground/validator errors to our ValidationError format
func convertValidatorErrors(err error, fieldPrefix string, itemName string) ValidationErrors {
	var validationErrors ValidationErrors

	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return ValidationErrors{{
			ItemName:  itemName,
			FieldPath: fieldPrefix,
			Message:   err.Error(),
		}}
	}

	for _, e := range validatorErrs {
		fieldPath := fieldPrefix
		if e.Field() != "" {
			// e.Field() returns the YAML tag name because of the registered TagNameFunc
			if fieldPrefix != "" {
				fieldPath = fieldPrefix + "." + e.Field()
			} else {
				fieldPath = e.Field()
			}
		}

		validationErrors = append(validationErrors, ValidationError{
			ItemName:  itemName,
			FieldPath: fieldPath,
			Message:   getValidationMessage(e),
		})
	}

	return validationErrors
}
