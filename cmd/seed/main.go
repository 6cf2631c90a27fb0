package main

import (
	"log"

	"edushareqa/internal/app"
	"edushareqa/internal/config"
	"edushareqa/internal/database"
	"edushareqa/internal/domain/auth"
	"edushareqa/internal/domain/course"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seedUser struct {
	username, email, password, fullName string
	role                                auth.Role
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(".", "./config")
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	db, err := database.Connect(cfg.Database.DSN, nil)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := app.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (children first)
	log.Println("Cleaning old data...")
	for _, table := range []string{
		"answer_attachments", "answers", "question_attachments", "questions",
		"notifications", "resources", "course_students", "course_teachers", "courses", "users",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("clean %s: %v", table, err)
		}
	}

	// ================== USERS ==================
	log.Println("Creating users...")
	users := map[string]*auth.User{}
	for _, su := range []seedUser{
		{"admin", "admin@edushareqa.local", "admin123", "Administrator", auth.RoleAdmin},
		{"teacher1", "teacher1@edushareqa.local", "teacher123", "Li Wei", auth.RoleTeacher},
		{"teacher2", "teacher2@edushareqa.local", "teacher123", "Maria Novak", auth.RoleTeacher},
		{"student1", "student1@edushareqa.local", "student123", "Chen Jing", auth.RoleStudent},
		{"student2", "student2@edushareqa.local", "student123", "Omar Haddad", auth.RoleStudent},
	} {
		u := mustCreateUser(db, su)
		users[su.username] = u
		log.Printf("User created: %s / %s (%s)", su.username, su.password, su.role)
	}

	// ================== COURSES ==================
	log.Println("Creating courses...")
	cs := &course.Course{Code: "CS101", Name: "Introduction to Programming", Faculty: "Computer Science",
		Description: "Variables, control flow, functions and basic data structures."}
	ma := &course.Course{Code: "MA201", Name: "Linear Algebra", Faculty: "Mathematics",
		Description: "Vector spaces, matrices and linear maps."}
	for _, c := range []*course.Course{cs, ma} {
		if err := db.Create(c).Error; err != nil {
			log.Fatalf("create course %s: %v", c.Code, err)
		}
	}

	log.Println("Assigning teachers and enrolling students...")
	teachers := []course.CourseTeacher{
		{CourseID: cs.ID, TeacherID: users["teacher1"].ID},
		{CourseID: ma.ID, TeacherID: users["teacher2"].ID},
	}
	students := []course.CourseStudent{
		{CourseID: cs.ID, StudentID: users["student1"].ID},
		{CourseID: cs.ID, StudentID: users["student2"].ID},
		{CourseID: ma.ID, StudentID: users["student1"].ID},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&teachers).Error; err != nil {
		log.Fatal("assign teachers failed:", err)
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&students).Error; err != nil {
		log.Fatal("enroll students failed:", err)
	}

	log.Println("Seed completed")
}

func mustCreateUser(db *gorm.DB, su seedUser) *auth.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("hash password failed:", err)
	}
	u := &auth.User{
		Username:     su.username,
		Email:        su.email,
		PasswordHash: string(hash),
		FullName:     su.fullName,
	}
	u.SetRoles(su.role)
	if err := db.Create(u).Error; err != nil {
		log.Fatalf("create user %s: %v", su.username, err)
	}
	return u
}
