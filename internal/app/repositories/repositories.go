package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository          *UserRepository
	StudentRepository       *StudentRepository
	MentorRepository        *MentorRepository
	PlacementRepository     *PlacementRepository
	DocumentRepository      *DocumentRepository
	CompanyRepository       *CompanyRepository
	TokenRepository         *TokenRepository
	PasswordTokenRepository *PasswordTokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:          NewUserRepository(db),
		StudentRepository:       NewStudentRepository(db),
		MentorRepository:        NewMentorRepository(db),
		PlacementRepository:     NewPlacementRepository(db),
		DocumentRepository:      NewDocumentRepository(db),
		CompanyRepository:       NewCompanyRepository(db),
		TokenRepository:         NewTokenRepository(db),
		PasswordTokenRepository: NewPasswordTokenRepository(db),
	}
}
