package loader

// mergeable is satisfied by every raw list-item type that carries a
// stable identity key and an optional merge operator.
type mergeable interface {
	mergeKey() string
	mergeOp() string
}

// mergeItems folds overlay into base per §4.2's per-element operator
// rule: `+` (default) appends, `-` removes the element matching the
// same stable key, `U` updates-in-place or appends if absent.
func mergeItems[T mergeable](base, overlay []T) []T {
	result := append([]T(nil), base...)
	index := make(map[string]int, len(result))
	for i, item := range result {
		index[item.mergeKey()] = i
	}

	for _, item := range overlay {
		op := item.mergeOp()
		if op == "" {
			op = "+"
		}
		key := item.mergeKey()

		switch op {
		case "-":
			if i, ok := index[key]; ok {
				result = append(result[:i], result[i+1:]...)
				delete(index, key)
				for k, v := range index {
					if v > i {
						index[k] = v - 1
					}
				}
			}
		case "U":
			if i, ok := index[key]; ok {
				result[i] = item
			} else {
				index[key] = len(result)
				result = append(result, item)
			}
		default: // "+"
			index[key] = len(result)
			result = append(result, item)
		}
	}

	return result
}

// concatStrings applies list-concatenation to bare scalar lists (tags,
// depends_on_tables, grain, group_by, having, the ctes bare-list form,
// the legacy audit shorthand column lists, partitioned_by,
// clustered_by): none of these carry a per-element operator since
// their elements are plain strings rather than objects, so §4.2's
// append/remove/update operator only has a home on the object-shaped
// lists merged via mergeItems.
func concatStrings(base, overlay []string) []string {
	if len(overlay) == 0 {
		return base
	}
	return append(append([]string(nil), base...), overlay...)
}

func mergeAcceptedValues(base, overlay map[string][]string) map[string][]string {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}
	merged := make(map[string][]string, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}

// mergeDocuments folds a stem group's files, already ordered base file
// first and then its .partN files in lexicographic order, into one
// rawDocument. Scalars
// overwrite last-wins; list fields merge per mergeItems/concatStrings;
// the `accepted_values` map merges recursively (last-wins per key).
func mergeDocuments(docs []rawDocument) rawDocument {
	merged := docs[0]
	for _, overlay := range docs[1:] {
		if overlay.Model.Name != "" {
			merged.Model.Name = overlay.Model.Name
		}
		if overlay.Model.Description != "" {
			merged.Model.Description = overlay.Model.Description
		}
		if overlay.Model.Layer != "" {
			merged.Model.Layer = overlay.Model.Layer
		}
		if overlay.Model.Kind != "" {
			merged.Model.Kind = overlay.Model.Kind
		}
		if overlay.Model.Owner != "" {
			merged.Model.Owner = overlay.Model.Owner
		}
		if overlay.Model.Domain != "" {
			merged.Model.Domain = overlay.Model.Domain
		}
		if overlay.Model.RefreshFrequency != "" {
			merged.Model.RefreshFrequency = overlay.Model.RefreshFrequency
		}
		merged.Model.Tags = concatStrings(merged.Model.Tags, overlay.Model.Tags)

		if overlay.Source.BaseTable != "" {
			merged.Source.BaseTable = overlay.Source.BaseTable
		}
		merged.Source.DependsOnTables = concatStrings(merged.Source.DependsOnTables, overlay.Source.DependsOnTables)

		merged.Transformations.Columns = mergeItems(merged.Transformations.Columns, overlay.Transformations.Columns)
		merged.Filters.WhereConditions = mergeItems(merged.Filters.WhereConditions, overlay.Filters.WhereConditions)
		merged.CTEs.Names = concatStrings(merged.CTEs.Names, overlay.CTEs.Names)
		merged.Aggregations.GroupBy = concatStrings(merged.Aggregations.GroupBy, overlay.Aggregations.GroupBy)
		merged.Aggregations.Having = concatStrings(merged.Aggregations.Having, overlay.Aggregations.Having)

		merged.Audits.Audits = mergeItems(merged.Audits.Audits, overlay.Audits.Audits)
		merged.Audits.NotNull = concatStrings(merged.Audits.NotNull, overlay.Audits.NotNull)
		merged.Audits.PositiveValues = concatStrings(merged.Audits.PositiveValues, overlay.Audits.PositiveValues)
		merged.Audits.UniqueCombination = concatStrings(merged.Audits.UniqueCombination, overlay.Audits.UniqueCombination)
		merged.Audits.AcceptedValues = mergeAcceptedValues(merged.Audits.AcceptedValues, overlay.Audits.AcceptedValues)

		merged.Grain = concatStrings(merged.Grain, overlay.Grain)
		merged.Relationships.ForeignKeys = mergeItems(merged.Relationships.ForeignKeys, overlay.Relationships.ForeignKeys)

		merged.Optimization.PartitionedBy = concatStrings(merged.Optimization.PartitionedBy, overlay.Optimization.PartitionedBy)
		merged.Optimization.ClusteredBy = concatStrings(merged.Optimization.ClusteredBy, overlay.Optimization.ClusteredBy)
		merged.Optimization.Indexes = append(merged.Optimization.Indexes, overlay.Optimization.Indexes...)
	}
	return merged
}
