package devserver

import (
	"errors"
	"sync"

	"roadmap-cli/internal/model"

	"github.com/google/uuid"
)

var (
	errTemplateNotFound = errors.New("template not found")
	errTaskNotFound     = errors.New("task not found")
	errForeignArea      = errors.New("area does not belong to template")
	errForeignPhase     = errors.New("phase does not belong to template")
	errNameRequired     = errors.New("name is required")
)

type storedTask struct {
	templateID string
	task       model.Task
}

// Store is the in-memory repository behind the development server.
// Collections keep insertion order, which is the order the API returns.
type Store struct {
	mu        sync.Mutex
	templates []model.Template
	areas     map[string][]model.Area
	phases    map[string][]model.Phase
	tasks     []storedTask
}

func NewStore() *Store {
	return &Store{
		areas:  map[string][]model.Area{},
		phases: map[string][]model.Phase{},
	}
}

func (s *Store) AddTemplate(name string) model.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := model.Template{ID: uuid.NewString(), Name: name}
	s.templates = append(s.templates, t)
	return t
}

func (s *Store) AddArea(templateID, name string) (model.Area, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasTemplate(templateID) {
		return model.Area{}, errTemplateNotFound
	}
	a := model.Area{ID: uuid.NewString(), Name: name}
	s.areas[templateID] = append(s.areas[templateID], a)
	return a, nil
}

func (s *Store) AddPhase(templateID, name string) (model.Phase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasTemplate(templateID) {
		return model.Phase{}, errTemplateNotFound
	}
	p := model.Phase{ID: uuid.NewString(), Name: name}
	s.phases[templateID] = append(s.phases[templateID], p)
	return p, nil
}

func (s *Store) Templates() []model.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Template(nil), s.templates...)
}

func (s *Store) Areas(templateID string) ([]model.Area, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasTemplate(templateID) {
		return nil, errTemplateNotFound
	}
	return append([]model.Area{}, s.areas[templateID]...), nil
}

func (s *Store) Phases(templateID string) ([]model.Phase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasTemplate(templateID) {
		return nil, errTemplateNotFound
	}
	return append([]model.Phase{}, s.phases[templateID]...), nil
}

func (s *Store) Tasks(templateID string) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasTemplate(templateID) {
		return nil, errTemplateNotFound
	}
	out := []model.Task{}
	for _, st := range s.tasks {
		if st.templateID == templateID {
			out = append(out, st.task)
		}
	}
	return out, nil
}

func (s *Store) Task(id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(id)
	if i < 0 {
		return model.Task{}, errTaskNotFound
	}
	return s.tasks[i].task, nil
}

func (s *Store) CreateTask(templateID string, in model.TaskInput) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasTemplate(templateID) {
		return model.Task{}, errTemplateNotFound
	}
	if err := s.validate(templateID, in); err != nil {
		return model.Task{}, err
	}
	t := taskFromInput(uuid.NewString(), in)
	s.tasks = append(s.tasks, storedTask{templateID: templateID, task: t})
	return t, nil
}

func (s *Store) UpdateTask(id string, in model.TaskInput) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(id)
	if i < 0 {
		return model.Task{}, errTaskNotFound
	}
	if err := s.validate(s.tasks[i].templateID, in); err != nil {
		return model.Task{}, err
	}
	t := taskFromInput(id, in)
	s.tasks[i].task = t
	return t, nil
}

func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(id)
	if i < 0 {
		return errTaskNotFound
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return nil
}

func (s *Store) hasTemplate(id string) bool {
	for _, t := range s.templates {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) taskIndex(id string) int {
	for i := range s.tasks {
		if s.tasks[i].task.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) validate(templateID string, in model.TaskInput) error {
	if in.Name == "" {
		return errNameRequired
	}
	if in.AreaID != nil {
		found := false
		for _, a := range s.areas[templateID] {
			if a.ID == *in.AreaID {
				found = true
				break
			}
		}
		if !found {
			return errForeignArea
		}
	}
	if in.PhaseID != nil {
		found := false
		for _, p := range s.phases[templateID] {
			if p.ID == *in.PhaseID {
				found = true
				break
			}
		}
		if !found {
			return errForeignPhase
		}
	}
	return nil
}

func taskFromInput(id string, in model.TaskInput) model.Task {
	return model.Task{
		ID:                 id,
		Name:               in.Name,
		Description:        in.Description,
		PlannedStart:       in.PlannedStart,
		PlannedFinish:      in.PlannedFinish,
		ForeActStart:       in.ForeActStart,
		ForeActFinish:      in.ForeActFinish,
		ActualStart:        in.ActualStart,
		ActualFinish:       in.ActualFinish,
		PctWeight:          in.PctWeight,
		PctComplete:        in.PctComplete,
		OptionalFlag:       in.OptionalFlag,
		State:              in.State,
		Status:             in.Status,
		AreaID:             in.AreaID,
		PhaseID:            in.PhaseID,
		Outcome:            in.Outcome,
		OutcomeDescription: in.OutcomeDescription,
		Responsible:        in.Responsible,
		PrecedentTask:      in.PrecedentTask,
	}
}
