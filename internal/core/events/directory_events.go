package events

const (
	EventTypeEmployeeCreated = "employee.created"
	EventTypeEmployeeUpdated = "employee.updated"
	EventTypeEmployeeDeleted = "employee.deleted"
	EventTypeUserRegistered  = "user.registered"
)

// DirectoryEventTypes lists every event the directory publishes.
var DirectoryEventTypes = []string{
	EventTypeEmployeeCreated,
	EventTypeEmployeeUpdated,
	EventTypeEmployeeDeleted,
	EventTypeUserRegistered,
}

type EmployeeEvent struct {
	BaseEvent
	RecordID   string `json:"record_id"`
	EmployeeID string `json:"employee_id"`
	ActorID    string `json:"actor_id"`
}

func newEmployeeEvent(eventType, recordID, employeeID, actorID string) *EmployeeEvent {
	return &EmployeeEvent{
		BaseEvent: newBaseEvent(eventType, map[string]interface{}{
			"record_id":   recordID,
			"employee_id": employeeID,
			"actor_id":    actorID,
		}),
		RecordID:   recordID,
		EmployeeID: employeeID,
		ActorID:    actorID,
	}
}

func NewEmployeeCreatedEvent(recordID, employeeID, actorID string) *EmployeeEvent {
	return newEmployeeEvent(EventTypeEmployeeCreated, recordID, employeeID, actorID)
}

func NewEmployeeUpdatedEvent(recordID, employeeID, actorID string) *EmployeeEvent {
	return newEmployeeEvent(EventTypeEmployeeUpdated, recordID, employeeID, actorID)
}

func NewEmployeeDeletedEvent(recordID, actorID string) *EmployeeEvent {
	return newEmployeeEvent(EventTypeEmployeeDeleted, recordID, "", actorID)
}

type UserRegisteredEvent struct {
	BaseEvent
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	ActorID string `json:"actor_id"`
}

func NewUserRegisteredEvent(userID, email, role, actorID string) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseEvent: newBaseEvent(EventTypeUserRegistered, map[string]interface{}{
			"user_id":  userID,
			"email":    email,
			"role":     role,
			"actor_id": actorID,
		}),
		UserID:  userID,
		Email:   email,
		Role:    role,
		ActorID: actorID,
	}
}
