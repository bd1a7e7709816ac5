package service

import "survegio_backend/internal/model"

// AssignmentMapping 成员 ID -> 关联记录 ID，每个成员最多对应一条关联记录
type AssignmentMapping struct {
	entries    []model.AssignmentEntry
	index      map[uint]uint
	duplicates []uint
}

// NewAssignmentMapping 读取时归一化：忽略空成员，同一成员的多余关联记录留待删除
func NewAssignmentMapping(entries []model.AssignmentEntry) AssignmentMapping {
	m := AssignmentMapping{index: make(map[uint]uint, len(entries))}
	for _, e := range entries {
		if e.MemberID == 0 {
			continue
		}
		if _, ok := m.index[e.MemberID]; ok {
			if e.JunctionID != 0 {
				m.duplicates = append(m.duplicates, e.JunctionID)
			}
			continue
		}
		m.index[e.MemberID] = e.JunctionID
		m.entries = append(m.entries, e)
	}
	return m
}

func (m AssignmentMapping) Len() int {
	return len(m.entries)
}

func (m AssignmentMapping) MemberIDs() []uint {
	ids := make([]uint, len(m.entries))
	for i, e := range m.entries {
		ids[i] = e.MemberID
	}
	return ids
}

func (m AssignmentMapping) Entries() []model.AssignmentEntry {
	return append([]model.AssignmentEntry(nil), m.entries...)
}

// AssignmentDelta 新旧关联的差异
type AssignmentDelta struct {
	ToKeep   []model.AssignmentEntry `json:"toKeep"`
	ToCreate []uint                  `json:"toCreate"`
	ToDelete []uint                  `json:"toDelete"`
}

// DiffAssignments 计算最小增删集合，保留仍然选中成员的关联记录 ID
func DiffAssignments(existing AssignmentMapping, desired []uint) AssignmentDelta {
	want := make(map[uint]struct{}, len(desired))
	for _, id := range desired {
		if id != 0 {
			want[id] = struct{}{}
		}
	}

	delta := AssignmentDelta{
		ToKeep:   []model.AssignmentEntry{},
		ToCreate: []uint{},
		ToDelete: append([]uint{}, existing.duplicates...),
	}

	for _, e := range existing.entries {
		if _, ok := want[e.MemberID]; ok {
			delta.ToKeep = append(delta.ToKeep, e)
			continue
		}
		if e.JunctionID != 0 {
			delta.ToDelete = append(delta.ToDelete, e.JunctionID)
		}
	}

	seen := make(map[uint]struct{}, len(want))
	for _, id := range desired {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := existing.index[id]; !ok {
			delta.ToCreate = append(delta.ToCreate, id)
		}
	}

	return delta
}

// Entries 整体替换写入的内容：保留项带原 ID，新增项 ID 为 0；未列出的旧记录由存储层删除
func (d AssignmentDelta) Entries() []model.AssignmentEntry {
	out := make([]model.AssignmentEntry, 0, len(d.ToKeep)+len(d.ToCreate))
	out = append(out, d.ToKeep...)
	for _, id := range d.ToCreate {
		out = append(out, model.AssignmentEntry{MemberID: id})
	}
	return out
}

func (d AssignmentDelta) IsNoop() bool {
	return len(d.ToCreate) == 0 && len(d.ToDelete) == 0
}

// AssignmentSummary 差异的计数摘要
type AssignmentSummary struct {
	Kept    int `json:"kept"`
	Created int `json:"created"`
	Deleted int `json:"deleted"`
}

func (d AssignmentDelta) Summary() AssignmentSummary {
	return AssignmentSummary{Kept: len(d.ToKeep), Created: len(d.ToCreate), Deleted: len(d.ToDelete)}
}
