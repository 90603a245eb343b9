// Package dump renders a reconstructed Stage as JSON and produces the
// summary rows the CLI tables display.
package dump

import (
	"encoding/json"
	"fmt"
	"sort"

	"stagecrate/internal/scene"
	"stagecrate/internal/spath"
	"stagecrate/internal/value"
)

// StageJSON renders the stage as a JSON document.
func StageJSON(stage *scene.Stage, indent bool) ([]byte, error) {
	doc := map[string]any{
		"metas": renderStageMetas(stage.Metas),
		"prims": renderPrims(stage.RootPrims),
	}
	if indent {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

func renderStageMetas(m scene.StageMetas) map[string]any {
	out := map[string]any{}
	if m.UpAxis != nil {
		out["upAxis"] = m.UpAxis.String()
	}
	if m.MetersPerUnit != nil {
		out["metersPerUnit"] = *m.MetersPerUnit
	}
	if m.TimeCodesPerSecond != nil {
		out["timeCodesPerSecond"] = *m.TimeCodesPerSecond
	}
	if m.StartTimeCode != nil {
		out["startTimeCode"] = *m.StartTimeCode
	}
	if m.EndTimeCode != nil {
		out["endTimeCode"] = *m.EndTimeCode
	}
	if m.DefaultPrim != "" {
		out["defaultPrim"] = m.DefaultPrim.String()
	}
	if m.CustomLayerData != nil {
		out["customLayerData"] = renderDictionary(m.CustomLayerData)
	}
	if m.Doc != nil {
		out["documentation"] = m.Doc.Value
	}
	if m.Comment != nil {
		out["comment"] = m.Comment.Value
	}
	return out
}

func renderPrims(prims []scene.Prim) []any {
	out := make([]any, 0, len(prims))
	for i := range prims {
		out = append(out, renderPrim(&prims[i]))
	}
	return out
}

func renderPrim(prim *scene.Prim) map[string]any {
	out := map[string]any{
		"name": prim.Name(),
		"type": prim.TypeName(),
		"path": prim.ElementPath.String(),
	}
	if prim.Value != nil {
		meta := prim.Value.PrimMeta()
		if meta.Authored() {
			out["meta"] = renderPrimMeta(meta)
		}
		if core := corePropertyMap(prim.Value); len(core) > 0 {
			props := map[string]any{}
			for name, prop := range core {
				props[name] = renderProperty(prop)
			}
			out["properties"] = props
		}
	}
	if len(prim.Children) > 0 {
		out["children"] = renderPrims(prim.Children)
	}
	return out
}

func corePropertyMap(typed scene.TypedPrim) scene.PropertyMap {
	type propsCarrier interface{ PropertyMap() scene.PropertyMap }
	if c, ok := typed.(propsCarrier); ok {
		return c.PropertyMap()
	}
	return nil
}

func renderPrimMeta(meta *scene.PrimMeta) map[string]any {
	out := map[string]any{}
	if meta.Active != nil {
		out["active"] = *meta.Active
	}
	if meta.Hidden != nil {
		out["hidden"] = *meta.Hidden
	}
	if meta.Kind != nil {
		out["kind"] = meta.Kind.String()
	}
	if meta.Doc != nil {
		out["documentation"] = meta.Doc.Value
	}
	if meta.Comment != nil {
		out["comment"] = meta.Comment.Value
	}
	if meta.SceneName != nil {
		out["sceneName"] = *meta.SceneName
	}
	if meta.DisplayName != nil {
		out["displayName"] = *meta.DisplayName
	}
	if meta.AssetInfo != nil {
		out["assetInfo"] = renderDictionary(meta.AssetInfo)
	}
	if meta.CustomData != nil {
		out["customData"] = renderDictionary(meta.CustomData)
	}
	if meta.APISchemas != nil {
		names := make([]string, 0, len(meta.APISchemas.Names))
		for _, entry := range meta.APISchemas.Names {
			names = append(names, entry.Name.String())
		}
		out["apiSchemas"] = map[string]any{
			"qualifier": meta.APISchemas.Qual.String(),
			"names":     names,
		}
	}
	return out
}

func renderProperty(prop scene.Property) map[string]any {
	out := map[string]any{
		"kind": prop.Type.String(),
	}
	if prop.Custom {
		out["custom"] = true
	}

	switch prop.Type {
	case scene.PropertyEmptyAttribute:
		out["typeName"] = prop.Attr.TypeName
	case scene.PropertyAttribute:
		if prop.Attr.TypeName != "" {
			out["typeName"] = prop.Attr.TypeName
		}
		if prop.Attr.HasScalar() {
			out["value"] = RenderValue(prop.Attr.Scalar)
			out["valueType"] = prop.Attr.Scalar.TypeName()
		}
		if prop.Attr.HasSamples() {
			out["timeSamples"] = renderTimeSamples(*prop.Attr.Samples)
		}
	case scene.PropertyConnection, scene.PropertyRelationship:
		out["targets"] = renderTargets(prop.Rel)
		if prop.Type == scene.PropertyRelationship {
			out["qualifier"] = prop.Rel.ListEdit.String()
		}
	case scene.PropertyNoTargetRelationship:
		out["targets"] = []any{}
	}
	return out
}

func renderTargets(rel scene.Relationship) []any {
	switch rel.Form {
	case scene.RelationshipPath:
		return []any{rel.Target.String()}
	case scene.RelationshipPathVector:
		out := make([]any, 0, len(rel.Targets))
		for _, p := range rel.Targets {
			out = append(out, p.String())
		}
		return out
	default:
		return []any{}
	}
}

func renderTimeSamples(ts value.TimeSamples) []any {
	out := make([]any, 0, ts.Len())
	for i := range ts.Times {
		sample := map[string]any{"time": ts.Times[i]}
		if _, blocked := value.As[value.Block](ts.Values[i]); blocked {
			sample["blocked"] = true
		} else {
			sample["value"] = RenderValue(ts.Values[i])
		}
		out = append(out, sample)
	}
	return out
}

func renderDictionary(d value.Dictionary) map[string]any {
	out := make(map[string]any, len(d))
	for key, mv := range d {
		out[key] = RenderValue(mv.Value)
	}
	return out
}

// RenderValue converts a tagged value into a JSON-marshalable form. Half
// payloads widen to float32; tokens, paths, and assets render as strings.
func RenderValue(v value.Value) any {
	switch raw := v.Raw().(type) {
	case nil:
		return nil
	case value.Half:
		return raw.Float32()
	case value.Half2:
		return []float32{raw[0].Float32(), raw[1].Float32()}
	case value.Half3:
		return []float32{raw[0].Float32(), raw[1].Float32(), raw[2].Float32()}
	case value.Half4:
		return []float32{raw[0].Float32(), raw[1].Float32(), raw[2].Float32(), raw[3].Float32()}
	case []value.Half:
		out := make([]float32, len(raw))
		for i, h := range raw {
			out[i] = h.Float32()
		}
		return out
	case value.Token:
		return raw.String()
	case []value.Token:
		out := make([]string, len(raw))
		for i, tok := range raw {
			out[i] = tok.String()
		}
		return out
	case value.AssetPath:
		return string(raw)
	case spath.Path:
		return raw.String()
	case value.PathVector:
		out := make([]string, len(raw))
		for i, p := range raw {
			out[i] = p.String()
		}
		return out
	case value.StringData:
		return raw.Value
	case value.Dictionary:
		return renderDictionary(raw)
	case value.TimeSamples:
		return renderTimeSamples(raw)
	case value.Specifier:
		return raw.String()
	case value.Variability:
		return raw.String()
	case value.Permission:
		return raw.String()
	case value.Block:
		return "None"
	default:
		return raw
	}
}

// TypeCount is one (prim type, count) summary row.
type TypeCount struct {
	TypeName string
	Count    int
}

// Summary aggregates a stage for the info table.
type Summary struct {
	PrimCount  int
	TypeCounts []TypeCount
}

// Summarize counts prims per type, sorted by descending count then name.
func Summarize(stage *scene.Stage) Summary {
	counts := map[string]int{}
	var walk func(prims []scene.Prim)
	walk = func(prims []scene.Prim) {
		for i := range prims {
			counts[prims[i].TypeName()]++
			walk(prims[i].Children)
		}
	}
	walk(stage.RootPrims)

	summary := Summary{PrimCount: stage.PrimCount()}
	for name, n := range counts {
		summary.TypeCounts = append(summary.TypeCounts, TypeCount{TypeName: name, Count: n})
	}
	sort.Slice(summary.TypeCounts, func(i, j int) bool {
		if summary.TypeCounts[i].Count != summary.TypeCounts[j].Count {
			return summary.TypeCounts[i].Count > summary.TypeCounts[j].Count
		}
		return summary.TypeCounts[i].TypeName < summary.TypeCounts[j].TypeName
	})
	return summary
}

// Fingerprint formats the short content hash used by the catalog.
func Fingerprint(sum [32]byte) string {
	return fmt.Sprintf("%x", sum[:8])
}
