package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbriand/comptoir-backend/internal/domain"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users    map[string]*domain.User
	ByID     map[uuid.UUID]*domain.User
	CreateFn func(auth0ID, email string, name, pictureURL *string) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

func (m *MockUserRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByAuth0ID(_ context.Context, auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range m.ByID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) CreateOrGetByAuth0ID(_ context.Context, auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(auth0ID, email, name, pictureURL)
	}
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:         uuid.New(),
		Auth0ID:    auth0ID,
		Email:      email,
		Name:       name,
		PictureURL: pictureURL,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockOrganizationRepository is a mock implementation of domain.OrganizationRepository
type MockOrganizationRepository struct {
	Organizations map[uuid.UUID]*domain.Organization
	Members       *MockMemberRepository
}

// NewMockOrganizationRepository creates a new MockOrganizationRepository
func NewMockOrganizationRepository() *MockOrganizationRepository {
	return &MockOrganizationRepository{
		Organizations: make(map[uuid.UUID]*domain.Organization),
	}
}

func (m *MockOrganizationRepository) Create(_ context.Context, organization *domain.Organization) (*domain.Organization, error) {
	if organization.ID == uuid.Nil {
		organization.ID = uuid.New()
	}
	organization.CreatedAt = time.Now()
	organization.UpdatedAt = time.Now()
	m.Organizations[organization.ID] = organization
	return organization, nil
}

func (m *MockOrganizationRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Organization, error) {
	if org, ok := m.Organizations[id]; ok {
		return org, nil
	}
	return nil, domain.ErrOrganizationNotFound
}

func (m *MockOrganizationRepository) GetByUser(_ context.Context, userID uuid.UUID) ([]*domain.Organization, error) {
	var result []*domain.Organization
	for _, org := range m.Organizations {
		if org.OwnerID == userID {
			result = append(result, org)
			continue
		}
		if m.Members != nil {
			if _, err := m.Members.Get(context.Background(), org.ID, userID); err == nil {
				result = append(result, org)
			}
		}
	}
	return result, nil
}

func (m *MockOrganizationRepository) Update(_ context.Context, id uuid.UUID, name string) (*domain.Organization, error) {
	org, ok := m.Organizations[id]
	if !ok {
		return nil, domain.ErrOrganizationNotFound
	}
	org.Name = name
	org.UpdatedAt = time.Now()
	return org, nil
}

func (m *MockOrganizationRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.Organizations[id]; !ok {
		return domain.ErrOrganizationNotFound
	}
	delete(m.Organizations, id)
	return nil
}

// AddOrganization adds an organization to the mock repository (helper for tests)
func (m *MockOrganizationRepository) AddOrganization(org *domain.Organization) {
	m.Organizations[org.ID] = org
}

type memberKey struct {
	organizationID uuid.UUID
	userID         uuid.UUID
}

// MockMemberRepository is a mock implementation of domain.MemberRepository
type MockMemberRepository struct {
	Members map[memberKey]*domain.Member
}

// NewMockMemberRepository creates a new MockMemberRepository
func NewMockMemberRepository() *MockMemberRepository {
	return &MockMemberRepository{
		Members: make(map[memberKey]*domain.Member),
	}
}

func (m *MockMemberRepository) Add(_ context.Context, member *domain.Member) (*domain.Member, error) {
	key := memberKey{member.OrganizationID, member.UserID}
	if _, ok := m.Members[key]; ok {
		return nil, domain.ErrAlreadyExists
	}
	member.JoinedAt = time.Now()
	m.Members[key] = member
	return member, nil
}

func (m *MockMemberRepository) Get(_ context.Context, organizationID, userID uuid.UUID) (*domain.Member, error) {
	if member, ok := m.Members[memberKey{organizationID, userID}]; ok {
		return member, nil
	}
	return nil, domain.ErrMemberNotFound
}

func (m *MockMemberRepository) GetByOrganization(_ context.Context, organizationID uuid.UUID) ([]*domain.Member, error) {
	var result []*domain.Member
	for key, member := range m.Members {
		if key.organizationID == organizationID {
			result = append(result, member)
		}
	}
	return result, nil
}

func (m *MockMemberRepository) UpdateRole(_ context.Context, organizationID, userID uuid.UUID, role domain.MemberRole) (*domain.Member, error) {
	member, ok := m.Members[memberKey{organizationID, userID}]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	member.Role = role
	return member, nil
}

func (m *MockMemberRepository) Remove(_ context.Context, organizationID, userID uuid.UUID) error {
	key := memberKey{organizationID, userID}
	if _, ok := m.Members[key]; !ok {
		return domain.ErrMemberNotFound
	}
	delete(m.Members, key)
	return nil
}

// AddMember adds a member to the mock repository (helper for tests)
func (m *MockMemberRepository) AddMember(member *domain.Member) {
	m.Members[memberKey{member.OrganizationID, member.UserID}] = member
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
	GetByOrgFn   func(organizationID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error)
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Create(_ context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = time.Now()
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

func (m *MockTransactionRepository) GetByID(_ context.Context, organizationID, id uuid.UUID) (*domain.Transaction, error) {
	tx, ok := m.Transactions[id]
	if !ok || tx.OrganizationID != organizationID || tx.DeletedAt != nil {
		return nil, domain.ErrTransactionNotFound
	}
	return tx, nil
}

func (m *MockTransactionRepository) GetByOrganization(_ context.Context, organizationID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	if m.GetByOrgFn != nil {
		return m.GetByOrgFn(organizationID, filters)
	}
	var result []*domain.Transaction
	for _, tx := range m.Transactions {
		if tx.OrganizationID != organizationID || tx.DeletedAt != nil {
			continue
		}
		if filters != nil && !matchesFilters(tx, filters) {
			continue
		}
		result = append(result, tx)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].AccountingDate.Before(result[j].AccountingDate)
	})
	return result, nil
}

func matchesFilters(tx *domain.Transaction, filters *domain.TransactionFilters) bool {
	switch filters.Visibility {
	case domain.VisibilityCommon:
		if tx.IsPersonal {
			return false
		}
	case domain.VisibilityPersonal:
		if !tx.IsPersonal || tx.UserID != filters.UserID {
			return false
		}
	default:
		if tx.IsPersonal && tx.UserID != filters.UserID {
			return false
		}
	}
	if filters.Year != nil && tx.AccountingDate.Year() != *filters.Year {
		return false
	}
	if filters.Type != nil && tx.Type != *filters.Type {
		return false
	}
	if filters.CategoryID != nil && tx.CategoryID != *filters.CategoryID {
		return false
	}
	return true
}

func (m *MockTransactionRepository) Update(_ context.Context, organizationID, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	tx, ok := m.Transactions[id]
	if !ok || tx.OrganizationID != organizationID || tx.DeletedAt != nil {
		return nil, domain.ErrTransactionNotFound
	}
	tx.Label = data.Label
	tx.Amount = data.Amount
	tx.CategoryID = data.CategoryID
	tx.SubCategoryID = data.SubCategoryID
	tx.Type = data.Type
	tx.AccountingDate = data.AccountingDate
	tx.TransactionDate = data.TransactionDate
	tx.IsPersonal = data.IsPersonal
	tx.Notes = data.Notes
	tx.UpdatedAt = time.Now()
	return tx, nil
}

func (m *MockTransactionRepository) SetNetAmount(_ context.Context, organizationID, id uuid.UUID, netAmount *decimal.Decimal) (*domain.Transaction, error) {
	tx, ok := m.Transactions[id]
	if !ok || tx.OrganizationID != organizationID || tx.DeletedAt != nil {
		return nil, domain.ErrTransactionNotFound
	}
	tx.NetAmount = netAmount
	tx.UpdatedAt = time.Now()
	return tx, nil
}

func (m *MockTransactionRepository) SoftDelete(_ context.Context, organizationID, id uuid.UUID) error {
	tx, ok := m.Transactions[id]
	if !ok || tx.OrganizationID != organizationID || tx.DeletedAt != nil {
		return domain.ErrTransactionNotFound
	}
	now := time.Now()
	tx.DeletedAt = &now
	return nil
}

func (m *MockTransactionRepository) CountByCategory(_ context.Context, organizationID, categoryID uuid.UUID) (int64, error) {
	var count int64
	for _, tx := range m.Transactions {
		if tx.OrganizationID == organizationID && tx.CategoryID == categoryID && tx.DeletedAt == nil {
			count++
		}
	}
	return count, nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(tx *domain.Transaction) {
	m.Transactions[tx.ID] = tx
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[uuid.UUID]*domain.Category
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[uuid.UUID]*domain.Category),
	}
}

func (m *MockCategoryRepository) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()
	m.Categories[category.ID] = category
	return category, nil
}

func (m *MockCategoryRepository) GetByID(_ context.Context, organizationID, id uuid.UUID) (*domain.Category, error) {
	category, ok := m.Categories[id]
	if !ok || category.OrganizationID != organizationID {
		return nil, domain.ErrCategoryNotFound
	}
	return category, nil
}

func (m *MockCategoryRepository) GetByOrganization(_ context.Context, organizationID uuid.UUID, typ *domain.CategoryType) ([]*domain.Category, error) {
	var result []*domain.Category
	for _, category := range m.Categories {
		if category.OrganizationID != organizationID {
			continue
		}
		if typ != nil && category.Type != *typ {
			continue
		}
		result = append(result, category)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *MockCategoryRepository) Update(_ context.Context, organizationID, id uuid.UUID, name string) (*domain.Category, error) {
	category, ok := m.Categories[id]
	if !ok || category.OrganizationID != organizationID {
		return nil, domain.ErrCategoryNotFound
	}
	category.Name = name
	category.UpdatedAt = time.Now()
	return category, nil
}

func (m *MockCategoryRepository) Delete(_ context.Context, organizationID, id uuid.UUID) error {
	category, ok := m.Categories[id]
	if !ok || category.OrganizationID != organizationID {
		return domain.ErrCategoryNotFound
	}
	delete(m.Categories, id)
	return nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	m.Categories[category.ID] = category
}

// MockSubCategoryRepository is a mock implementation of domain.SubCategoryRepository
type MockSubCategoryRepository struct {
	SubCategories map[uuid.UUID]*domain.SubCategory
	Categories    *MockCategoryRepository
}

// NewMockSubCategoryRepository creates a new MockSubCategoryRepository
func NewMockSubCategoryRepository() *MockSubCategoryRepository {
	return &MockSubCategoryRepository{
		SubCategories: make(map[uuid.UUID]*domain.SubCategory),
	}
}

func (m *MockSubCategoryRepository) Create(_ context.Context, subCategory *domain.SubCategory) (*domain.SubCategory, error) {
	if subCategory.ID == uuid.Nil {
		subCategory.ID = uuid.New()
	}
	subCategory.CreatedAt = time.Now()
	subCategory.UpdatedAt = time.Now()
	m.SubCategories[subCategory.ID] = subCategory
	return subCategory, nil
}

func (m *MockSubCategoryRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	if sub, ok := m.SubCategories[id]; ok {
		return sub, nil
	}
	return nil, domain.ErrSubCategoryNotFound
}

func (m *MockSubCategoryRepository) GetByCategory(_ context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error) {
	var result []*domain.SubCategory
	for _, sub := range m.SubCategories {
		if sub.CategoryID == categoryID {
			result = append(result, sub)
		}
	}
	return result, nil
}

func (m *MockSubCategoryRepository) GetByOrganization(_ context.Context, organizationID uuid.UUID) ([]*domain.SubCategory, error) {
	if m.Categories == nil {
		var result []*domain.SubCategory
		for _, sub := range m.SubCategories {
			result = append(result, sub)
		}
		return result, nil
	}
	var result []*domain.SubCategory
	for _, sub := range m.SubCategories {
		category, ok := m.Categories.Categories[sub.CategoryID]
		if ok && category.OrganizationID == organizationID {
			result = append(result, sub)
		}
	}
	return result, nil
}

func (m *MockSubCategoryRepository) Update(_ context.Context, id uuid.UUID, name string) (*domain.SubCategory, error) {
	sub, ok := m.SubCategories[id]
	if !ok {
		return nil, domain.ErrSubCategoryNotFound
	}
	sub.Name = name
	sub.UpdatedAt = time.Now()
	return sub, nil
}

func (m *MockSubCategoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.SubCategories[id]; !ok {
		return domain.ErrSubCategoryNotFound
	}
	delete(m.SubCategories, id)
	return nil
}

// AddSubCategory adds a sub-category to the mock repository (helper for tests)
func (m *MockSubCategoryRepository) AddSubCategory(sub *domain.SubCategory) {
	m.SubCategories[sub.ID] = sub
}

// MockRefundRepository is a mock implementation of domain.RefundRepository
type MockRefundRepository struct {
	Refunds map[uuid.UUID]*domain.Refund
}

// NewMockRefundRepository creates a new MockRefundRepository
func NewMockRefundRepository() *MockRefundRepository {
	return &MockRefundRepository{
		Refunds: make(map[uuid.UUID]*domain.Refund),
	}
}

func (m *MockRefundRepository) Create(_ context.Context, refund *domain.Refund) (*domain.Refund, error) {
	if refund.ID == uuid.Nil {
		refund.ID = uuid.New()
	}
	refund.CreatedAt = time.Now()
	m.Refunds[refund.ID] = refund
	return refund, nil
}

func (m *MockRefundRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Refund, error) {
	if refund, ok := m.Refunds[id]; ok {
		return refund, nil
	}
	return nil, domain.ErrRefundNotFound
}

func (m *MockRefundRepository) GetByTransaction(_ context.Context, transactionID uuid.UUID) ([]*domain.Refund, error) {
	var result []*domain.Refund
	for _, refund := range m.Refunds {
		if refund.TransactionID == transactionID {
			result = append(result, refund)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RefundDate.Before(result[j].RefundDate)
	})
	return result, nil
}

func (m *MockRefundRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.Refunds[id]; !ok {
		return domain.ErrRefundNotFound
	}
	delete(m.Refunds, id)
	return nil
}

// AddRefund adds a refund to the mock repository (helper for tests)
func (m *MockRefundRepository) AddRefund(refund *domain.Refund) {
	m.Refunds[refund.ID] = refund
}

// MockNoteRepository is a mock implementation of domain.NoteRepository
type MockNoteRepository struct {
	Notes         map[uuid.UUID]*domain.Note
	Collaborators map[uuid.UUID][]*domain.NoteCollaborator
	Attachments   map[uuid.UUID]*domain.NoteAttachment
}

// NewMockNoteRepository creates a new MockNoteRepository
func NewMockNoteRepository() *MockNoteRepository {
	return &MockNoteRepository{
		Notes:         make(map[uuid.UUID]*domain.Note),
		Collaborators: make(map[uuid.UUID][]*domain.NoteCollaborator),
		Attachments:   make(map[uuid.UUID]*domain.NoteAttachment),
	}
}

func (m *MockNoteRepository) Create(_ context.Context, note *domain.Note) (*domain.Note, error) {
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	note.CreatedAt = time.Now()
	note.UpdatedAt = time.Now()
	m.Notes[note.ID] = note
	return note, nil
}

func (m *MockNoteRepository) GetByID(_ context.Context, organizationID, id uuid.UUID) (*domain.Note, error) {
	note, ok := m.Notes[id]
	if !ok || note.OrganizationID != organizationID {
		return nil, domain.ErrNoteNotFound
	}
	return note, nil
}

func (m *MockNoteRepository) GetByOrganization(_ context.Context, organizationID, userID uuid.UUID) ([]*domain.Note, error) {
	var result []*domain.Note
	for _, note := range m.Notes {
		if note.OrganizationID != organizationID {
			continue
		}
		if note.IsPersonal && note.AuthorID != userID && !m.isCollaborator(note.ID, userID) {
			continue
		}
		result = append(result, note)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Pinned != result[j].Pinned {
			return result[i].Pinned
		}
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (m *MockNoteRepository) isCollaborator(noteID, userID uuid.UUID) bool {
	for _, collab := range m.Collaborators[noteID] {
		if collab.UserID == userID {
			return true
		}
	}
	return false
}

func (m *MockNoteRepository) Update(_ context.Context, organizationID, id uuid.UUID, data *domain.UpdateNoteData) (*domain.Note, error) {
	note, ok := m.Notes[id]
	if !ok || note.OrganizationID != organizationID {
		return nil, domain.ErrNoteNotFound
	}
	note.Title = data.Title
	note.Content = data.Content
	note.IsPersonal = data.IsPersonal
	note.Pinned = data.Pinned
	note.UpdatedAt = time.Now()
	return note, nil
}

func (m *MockNoteRepository) Delete(_ context.Context, organizationID, id uuid.UUID) error {
	note, ok := m.Notes[id]
	if !ok || note.OrganizationID != organizationID {
		return domain.ErrNoteNotFound
	}
	delete(m.Notes, id)
	delete(m.Collaborators, id)
	return nil
}

func (m *MockNoteRepository) AddCollaborator(_ context.Context, noteID, userID uuid.UUID) (*domain.NoteCollaborator, error) {
	collab := &domain.NoteCollaborator{
		NoteID:  noteID,
		UserID:  userID,
		AddedAt: time.Now(),
	}
	m.Collaborators[noteID] = append(m.Collaborators[noteID], collab)
	return collab, nil
}

func (m *MockNoteRepository) GetCollaborators(_ context.Context, noteID uuid.UUID) ([]*domain.NoteCollaborator, error) {
	return m.Collaborators[noteID], nil
}

func (m *MockNoteRepository) RemoveCollaborator(_ context.Context, noteID, userID uuid.UUID) error {
	collabs := m.Collaborators[noteID]
	for i, collab := range collabs {
		if collab.UserID == userID {
			m.Collaborators[noteID] = append(collabs[:i], collabs[i+1:]...)
			return nil
		}
	}
	return domain.ErrMemberNotFound
}

func (m *MockNoteRepository) AddAttachment(_ context.Context, attachment *domain.NoteAttachment) (*domain.NoteAttachment, error) {
	if attachment.ID == uuid.Nil {
		attachment.ID = uuid.New()
	}
	attachment.CreatedAt = time.Now()
	m.Attachments[attachment.ID] = attachment
	return attachment, nil
}

func (m *MockNoteRepository) GetAttachments(_ context.Context, noteID uuid.UUID) ([]*domain.NoteAttachment, error) {
	var result []*domain.NoteAttachment
	for _, attachment := range m.Attachments {
		if attachment.NoteID == noteID {
			result = append(result, attachment)
		}
	}
	return result, nil
}

func (m *MockNoteRepository) GetAttachment(_ context.Context, id uuid.UUID) (*domain.NoteAttachment, error) {
	if attachment, ok := m.Attachments[id]; ok {
		return attachment, nil
	}
	return nil, domain.ErrAttachmentNotFound
}

func (m *MockNoteRepository) RemoveAttachment(_ context.Context, id uuid.UUID) error {
	if _, ok := m.Attachments[id]; !ok {
		return domain.ErrAttachmentNotFound
	}
	delete(m.Attachments, id)
	return nil
}

// AddNote adds a note to the mock repository (helper for tests)
func (m *MockNoteRepository) AddNote(note *domain.Note) {
	m.Notes[note.ID] = note
}

// MockTaskRepository is a mock implementation of domain.TaskRepository
type MockTaskRepository struct {
	Tasks map[uuid.UUID]*domain.Task
}

// NewMockTaskRepository creates a new MockTaskRepository
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

func (m *MockTaskRepository) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	m.Tasks[task.ID] = task
	return task, nil
}

func (m *MockTaskRepository) GetByID(_ context.Context, organizationID, id uuid.UUID) (*domain.Task, error) {
	task, ok := m.Tasks[id]
	if !ok || task.OrganizationID != organizationID {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (m *MockTaskRepository) GetByOrganization(_ context.Context, organizationID uuid.UUID) ([]*domain.Task, error) {
	var result []*domain.Task
	for _, task := range m.Tasks {
		if task.OrganizationID == organizationID {
			result = append(result, task)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Position < result[j].Position
	})
	return result, nil
}

func (m *MockTaskRepository) Update(_ context.Context, organizationID, id uuid.UUID, data *domain.UpdateTaskData) (*domain.Task, error) {
	task, ok := m.Tasks[id]
	if !ok || task.OrganizationID != organizationID {
		return nil, domain.ErrTaskNotFound
	}
	task.Title = data.Title
	task.Description = data.Description
	task.DueDate = data.DueDate
	task.UpdatedAt = time.Now()
	return task, nil
}

func (m *MockTaskRepository) ToggleCompleted(_ context.Context, organizationID, id uuid.UUID) (*domain.Task, error) {
	task, ok := m.Tasks[id]
	if !ok || task.OrganizationID != organizationID {
		return nil, domain.ErrTaskNotFound
	}
	task.Completed = !task.Completed
	if task.Completed {
		now := time.Now()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
	task.UpdatedAt = time.Now()
	return task, nil
}

func (m *MockTaskRepository) Reorder(_ context.Context, organizationID uuid.UUID, orderedIDs []uuid.UUID) error {
	for i, id := range orderedIDs {
		task, ok := m.Tasks[id]
		if !ok || task.OrganizationID != organizationID {
			return domain.ErrTaskNotFound
		}
		task.Position = int32(i)
	}
	return nil
}

func (m *MockTaskRepository) Delete(_ context.Context, organizationID, id uuid.UUID) error {
	task, ok := m.Tasks[id]
	if !ok || task.OrganizationID != organizationID {
		return domain.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return nil
}

func (m *MockTaskRepository) NextPosition(_ context.Context, organizationID uuid.UUID) (int32, error) {
	var max int32 = -1
	for _, task := range m.Tasks {
		if task.OrganizationID == organizationID && task.Position > max {
			max = task.Position
		}
	}
	return max + 1, nil
}

// AddTask adds a task to the mock repository (helper for tests)
func (m *MockTaskRepository) AddTask(task *domain.Task) {
	m.Tasks[task.ID] = task
}

// MockEventRepository is a mock implementation of domain.EventRepository
type MockEventRepository struct {
	Events map[uuid.UUID]*domain.Event
}

// NewMockEventRepository creates a new MockEventRepository
func NewMockEventRepository() *MockEventRepository {
	return &MockEventRepository{
		Events: make(map[uuid.UUID]*domain.Event),
	}
}

func (m *MockEventRepository) Create(_ context.Context, event *domain.Event) (*domain.Event, error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	m.Events[event.ID] = event
	return event, nil
}

func (m *MockEventRepository) GetByID(_ context.Context, organizationID, id uuid.UUID) (*domain.Event, error) {
	event, ok := m.Events[id]
	if !ok || event.OrganizationID != organizationID {
		return nil, domain.ErrEventNotFound
	}
	return event, nil
}

func (m *MockEventRepository) GetByRange(_ context.Context, organizationID uuid.UUID, from, to time.Time) ([]*domain.Event, error) {
	var result []*domain.Event
	for _, event := range m.Events {
		if event.OrganizationID != organizationID {
			continue
		}
		if event.EndsAt.Before(from) || event.StartsAt.After(to) {
			continue
		}
		result = append(result, event)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartsAt.Before(result[j].StartsAt)
	})
	return result, nil
}

func (m *MockEventRepository) Update(_ context.Context, organizationID, id uuid.UUID, data *domain.UpdateEventData) (*domain.Event, error) {
	event, ok := m.Events[id]
	if !ok || event.OrganizationID != organizationID {
		return nil, domain.ErrEventNotFound
	}
	event.Title = data.Title
	event.StartsAt = data.StartsAt
	event.EndsAt = data.EndsAt
	event.AllDay = data.AllDay
	event.Location = data.Location
	event.Color = data.Color
	event.UpdatedAt = time.Now()
	return event, nil
}

func (m *MockEventRepository) Delete(_ context.Context, organizationID, id uuid.UUID) error {
	event, ok := m.Events[id]
	if !ok || event.OrganizationID != organizationID {
		return domain.ErrEventNotFound
	}
	delete(m.Events, id)
	return nil
}

// AddEvent adds an event to the mock repository (helper for tests)
func (m *MockEventRepository) AddEvent(event *domain.Event) {
	m.Events[event.ID] = event
}

// MockFilterPreferenceRepository is a mock implementation of domain.FilterPreferenceRepository
type MockFilterPreferenceRepository struct {
	Preferences map[memberKey]*domain.FilterPreference
}

// NewMockFilterPreferenceRepository creates a new MockFilterPreferenceRepository
func NewMockFilterPreferenceRepository() *MockFilterPreferenceRepository {
	return &MockFilterPreferenceRepository{
		Preferences: make(map[memberKey]*domain.FilterPreference),
	}
}

func (m *MockFilterPreferenceRepository) Get(_ context.Context, userID, organizationID uuid.UUID) (*domain.FilterPreference, error) {
	if pref, ok := m.Preferences[memberKey{organizationID, userID}]; ok {
		return pref, nil
	}
	return nil, domain.ErrNotFound
}

func (m *MockFilterPreferenceRepository) Set(_ context.Context, preference *domain.FilterPreference) (*domain.FilterPreference, error) {
	preference.UpdatedAt = time.Now()
	m.Preferences[memberKey{preference.OrganizationID, preference.UserID}] = preference
	return preference, nil
}
