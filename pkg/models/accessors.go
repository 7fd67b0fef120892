package models

// The accessors below let the planning engine treat every dependent or
// child entity uniformly.

func (t Task) EntityID() string       { return t.ID }
func (t Task) IsCompleted() bool      { return t.Completed }
func (t Task) Dependencies() []string { return t.DependsOn }

func (r RoutineTask) EntityID() string       { return r.ID }
func (r RoutineTask) IsCompleted() bool      { return r.Completed }
func (r RoutineTask) Dependencies() []string { return r.DependsOn }

func (sg SubGoal) EntityID() string       { return sg.ID }
func (sg SubGoal) IsCompleted() bool      { return sg.Completed }
func (sg SubGoal) Dependencies() []string { return sg.DependsOn }

func (st SubTask) EntityID() string       { return st.ID }
func (st SubTask) IsCompleted() bool      { return st.Completed }
func (st SubTask) Dependencies() []string { return st.DependsOn }

func (w WeeklySubGoal) EntityID() string       { return w.ID }
func (w WeeklySubGoal) IsCompleted() bool      { return w.Completed }
func (w WeeklySubGoal) Dependencies() []string { return w.DependsOn }

func (g Goal) EntityID() string       { return g.ID }
func (p Project) EntityID() string    { return p.ID }
func (w WeeklyGoal) EntityID() string { return w.ID }
func (i InboxItem) EntityID() string  { return i.ID }

func (u UnplannedTask) EntityID() string { return u.ID }
func (l LogEntry) EntityID() string      { return l.ID }
func (i IdleTimeEntry) EntityID() string { return i.ID }
func (r Reflection) EntityID() string    { return r.ID }
