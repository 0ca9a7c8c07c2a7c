package devserver

import "roadmap-cli/internal/model"

// Seed fills s with a small demo roadmap and returns the template it created.
func Seed(s *Store) (model.Template, error) {
	tpl := s.AddTemplate("Field Development Project")

	areaNames := []string{"Operations Management", "Engineering", "Commercial"}
	phaseNames := []string{"Identify", "Assess", "Select", "Define", "Execute", "Operate"}

	areas := make([]model.Area, 0, len(areaNames))
	for _, n := range areaNames {
		a, err := s.AddArea(tpl.ID, n)
		if err != nil {
			return model.Template{}, err
		}
		areas = append(areas, a)
	}
	phases := make([]model.Phase, 0, len(phaseNames))
	for _, n := range phaseNames {
		p, err := s.AddPhase(tpl.ID, n)
		if err != nil {
			return model.Template{}, err
		}
		phases = append(phases, p)
	}

	tasks := []struct {
		name   string
		area   int
		phase  int
		start  string
		finish string
		pct    float64
		status model.TaskStatus
		state  model.TaskState
		desc   string
	}{
		{"Master project schedule", 0, 3, "2024-01-01", "2025-10-19", 40, model.StatusInProgress, model.StateBehindSchedule,
			"Organise all aspects of the project into a cohesive **timeline**."},
		{"Stakeholder map", 0, 0, "2024-01-08", "2024-02-01", 100, model.StatusCompleted, model.StateCompleted, ""},
		{"Concept select report", 1, 2, "2024-03-01", "2024-06-30", 60, model.StatusInProgress, model.StateOnTrack, ""},
		{"Basis of design", 1, 3, "", "", 0, model.StatusNotStarted, model.StatePlanned, ""},
		{"Contracting strategy", 2, 2, "2024-04-01", "", 10, model.StatusInProgress, model.StateOnTrack, ""},
	}
	for _, t := range tasks {
		_, err := s.CreateTask(tpl.ID, model.TaskInput{
			Name:          t.name,
			Description:   t.desc,
			PlannedStart:  model.NullableString(t.start),
			PlannedFinish: model.NullableString(t.finish),
			PctWeight:     20,
			PctComplete:   t.pct,
			State:         t.state,
			Status:        t.status,
			AreaID:        &areas[t.area].ID,
			PhaseID:       &phases[t.phase].ID,
		})
		if err != nil {
			return model.Template{}, err
		}
	}
	return tpl, nil
}
