package ingest

import (
	"encoding/json"
	"strconv"
	"strings"
)

// attribute names a canonical task attribute resolved from a raw record.
type attribute string

const (
	attrID            attribute = "id"
	attrTitle         attribute = "title"
	attrClient        attribute = "client"
	attrProject       attribute = "project"
	attrStart         attribute = "start"
	attrEnd           attribute = "end"
	attrResponsible   attribute = "responsible"
	attrFunctionGroup attribute = "functionGroup"
	attrPath          attribute = "fullPath"
	attrStatus        attribute = "status"
	attrKind          attribute = "kind"
	attrParent        attribute = "parentId"
)

// fieldAliases lists the source field names for every attribute, newest
// export schema first. Lookup is case-insensitive and the first present,
// non-empty value wins.
var fieldAliases = map[attribute][]string{
	attrID:            {"UniqueTaskID", "id", "TaskID", "task_id"},
	attrTitle:         {"TaskTitle", "name", "title", "tarefa"},
	attrClient:        {"ClientNickname", "client", "cliente", "ClientName"},
	attrProject:       {"JobTitle", "project", "projeto", "JobName"},
	attrStart:         {"TaskCreationDate", "start", "RequestDate", "inicio"},
	attrEnd:           {"CurrentDueDate", "end", "TaskClosingDate", "DueDate", "fim"},
	attrResponsible:   {"TaskOwnerDisplayName", "responsible", "responsavel"},
	attrFunctionGroup: {"TaskOwnerFunctionGroupName", "FunctionGroup", "TaskOwnerGroup"},
	attrPath:          {"TaskOwnerFullPath", "TaskOwnerGroupName", "group_subgroup"},
	attrStatus:        {"PipelineStepTitle", "status", "TaskStatus"},
	attrKind:          {"TipoTarefa", "tipo", "type", "kind"},
	attrParent:        {"ParentTaskID", "parent_id", "parentId"},
}

// record is a raw export object with a case-folded key index.
type record struct {
	raw    map[string]any
	folded map[string]string
}

func newRecord(raw map[string]any) record {
	folded := make(map[string]string, len(raw))
	for key := range raw {
		lower := strings.ToLower(key)
		// Keys differing only in case: keep the smallest so the choice does
		// not depend on map iteration order.
		if prev, ok := folded[lower]; ok && prev < key {
			continue
		}
		folded[lower] = key
	}
	return record{raw: raw, folded: folded}
}

// lookup resolves attr to the first present, non-empty candidate value.
func (r record) lookup(attr attribute) (string, bool) {
	for _, name := range fieldAliases[attr] {
		key, ok := r.folded[strings.ToLower(name)]
		if !ok {
			continue
		}
		if value, ok := scalarString(r.raw[key]); ok {
			return value, true
		}
	}
	return "", false
}

// scalarString renders scalar JSON values as trimmed strings. Null, empty
// strings, objects and arrays count as absent.
func scalarString(v any) (string, bool) {
	var s string
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		s = val
	case json.Number:
		s = val.String()
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		s = strconv.Itoa(val)
	case int64:
		s = strconv.FormatInt(val, 10)
	case bool:
		s = strconv.FormatBool(val)
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
