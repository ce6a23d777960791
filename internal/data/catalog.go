package data

// Catalog is the read-only config snapshot handed to a battle room.
type Catalog struct {
	Stages *StageTable
	Npcs   *NpcTable
}

// LoadCatalog loads the stage and NPC tables.
func LoadCatalog(stagePath, npcPath string) (*Catalog, error) {
	stages, err := LoadStageTable(stagePath)
	if err != nil {
		return nil, err
	}
	npcs, err := LoadNpcTable(npcPath)
	if err != nil {
		return nil, err
	}
	return &Catalog{Stages: stages, Npcs: npcs}, nil
}

func (c *Catalog) Stage(stageID int) (*StageInfo, bool) {
	if c == nil || c.Stages == nil {
		return nil, false
	}
	s := c.Stages.Get(stageID)
	return s, s != nil
}

func (c *Catalog) NpcPrefab(npcID int) (string, bool) {
	if c == nil || c.Npcs == nil {
		return "", false
	}
	t := c.Npcs.Get(npcID)
	if t == nil || t.Prefab == "" {
		return "", false
	}
	return t.Prefab, true
}

func (c *Catalog) NpcAttributes(npcID int) (NpcAttributes, bool) {
	if c == nil || c.Npcs == nil {
		return NpcAttributes{}, false
	}
	t := c.Npcs.Get(npcID)
	if t == nil {
		return NpcAttributes{}, false
	}
	return t.Attributes, true
}
