package diagram

// Groups returns all groups.
func (d *Diagram) Groups() []*Group {
	out := make([]*Group, len(d.groups))
	copy(out, d.groups)
	return out
}

// GetGroup returns the group with the given id, or nil.
func (d *Diagram) GetGroup(id string) *Group {
	if id == "" {
		return nil
	}
	for _, g := range d.groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// GroupForShape returns the group containing shapeID, or nil.
func (d *Diagram) GroupForShape(shapeID string) *Group {
	if s := d.shapeIndex[shapeID]; s != nil && s.GroupID != "" {
		if g := d.GetGroup(s.GroupID); g != nil {
			return g
		}
	}
	for _, g := range d.groups {
		if g.Contains(shapeID) {
			return g
		}
	}
	return nil
}

// AddGroup creates a group over the given shapes. An empty name becomes "Group".
func (d *Diagram) AddGroup(shapeIDs []string, name string) *Group {
	return d.InsertGroup(&Group{
		ID:       NewID(PrefixGroup),
		ShapeIDs: shapeIDs,
		Name:     name,
	})
}

// InsertGroup stores a group with a caller-chosen id. Members leave any
// previous group; unknown and repeated shape ids are dropped.
// Duplicate group ids are refused with nil.
func (d *Diagram) InsertGroup(g *Group) *Group {
	return d.InsertGroupAt(g, len(d.groups))
}

// InsertGroupAt stores a group at the given position of the group list.
func (d *Diagram) InsertGroupAt(g *Group, index int) *Group {
	if g == nil {
		return nil
	}
	if g.ID == "" {
		g.ID = NewID(PrefixGroup)
	}
	if d.GetGroup(g.ID) != nil {
		return nil
	}
	if g.Name == "" {
		g.Name = DefaultGroupName
	}

	members := g.ShapeIDs
	g.ShapeIDs = make([]string, 0, len(members))
	if index < 0 || index > len(d.groups) {
		index = len(d.groups)
	}
	d.groups = append(d.groups, nil)
	copy(d.groups[index+1:], d.groups[index:])
	d.groups[index] = g
	for _, sid := range members {
		if s := d.shapeIndex[sid]; s != nil && !g.Contains(sid) {
			d.moveToGroup(s, g.ID)
		}
	}

	d.touch()
	d.notify(Event{Kind: GroupAdded, Group: g})
	return g
}

// GroupIndex returns the position of a group, or -1.
func (d *Diagram) GroupIndex(id string) int {
	for i, g := range d.groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// RemoveGroup deletes a group and clears the back-reference on its members.
func (d *Diagram) RemoveGroup(id string) *Group {
	idx := d.GroupIndex(id)
	if idx == -1 {
		return nil
	}
	g := d.groups[idx]
	d.groups = append(d.groups[:idx], d.groups[idx+1:]...)
	for _, sid := range g.ShapeIDs {
		if s := d.shapeIndex[sid]; s != nil && s.GroupID == id {
			s.GroupID = ""
		}
	}
	d.touch()
	d.notify(Event{Kind: GroupRemoved, Group: g})
	return g
}

// SetGroupMembers replaces the member list of a group, keeping the order given.
// Shapes dropped from the list lose their back-reference.
func (d *Diagram) SetGroupMembers(id string, shapeIDs []string) *Group {
	g := d.GetGroup(id)
	if g == nil {
		return nil
	}
	keep := make(map[string]bool, len(shapeIDs))
	for _, sid := range shapeIDs {
		keep[sid] = true
	}
	for _, sid := range g.ShapeIDs {
		if s := d.shapeIndex[sid]; s != nil && !keep[sid] {
			s.GroupID = ""
		}
	}
	members := make([]string, 0, len(shapeIDs))
	seen := make(map[string]bool, len(shapeIDs))
	for _, sid := range shapeIDs {
		s := d.shapeIndex[sid]
		if s == nil || seen[sid] {
			continue
		}
		seen[sid] = true
		if s.GroupID != "" && s.GroupID != id {
			if old := d.GetGroup(s.GroupID); old != nil {
				old.ShapeIDs = removeString(old.ShapeIDs, sid)
			}
		}
		s.GroupID = id
		members = append(members, sid)
	}
	g.ShapeIDs = members
	d.touch()
	d.notify(Event{Kind: GroupChanged, Group: g})
	return g
}
