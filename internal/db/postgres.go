package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	types "github.com/yungbote/classmode-backend/internal/domain"
	"github.com/yungbote/classmode-backend/internal/platform/logger"
	"github.com/yungbote/classmode-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "classmode", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.Center{},
		&types.Group{},
		&types.Exercise{},
		&types.Assignment{},
		&types.Task{},
		&types.Membership{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		name string
		ddl  string
	}{
		{
			name: "fk_classroom_group_center_id",
			ddl: `ALTER TABLE "classroom_group"
				ADD CONSTRAINT "fk_classroom_group_center_id"
				FOREIGN KEY ("center_id") REFERENCES "center"("id")`,
		},
		{
			name: "fk_assignment_group_id",
			ddl: `ALTER TABLE "assignment"
				ADD CONSTRAINT "fk_assignment_group_id"
				FOREIGN KEY ("group_id") REFERENCES "classroom_group"("id")`,
		},
		{
			name: "fk_assignment_exercise_id",
			ddl: `ALTER TABLE "assignment"
				ADD CONSTRAINT "fk_assignment_exercise_id"
				FOREIGN KEY ("exercise_id") REFERENCES "exercise"("id")`,
		},
		{
			name: "fk_task_group_id",
			ddl: `ALTER TABLE "task"
				ADD CONSTRAINT "fk_task_group_id"
				FOREIGN KEY ("group_id") REFERENCES "classroom_group"("id")`,
		},
		{
			name: "fk_task_exercise_id",
			ddl: `ALTER TABLE "task"
				ADD CONSTRAINT "fk_task_exercise_id"
				FOREIGN KEY ("exercise_id") REFERENCES "exercise"("id")`,
		},
		{
			name: "fk_task_student_id",
			ddl: `ALTER TABLE "task"
				ADD CONSTRAINT "fk_task_student_id"
				FOREIGN KEY ("student_id") REFERENCES "user"("id")`,
		},
		{
			name: "fk_membership_user_id",
			ddl: `ALTER TABLE "membership"
				ADD CONSTRAINT "fk_membership_user_id"
				FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`,
		},
		{
			name: "fk_membership_center_id",
			ddl: `ALTER TABLE "membership"
				ADD CONSTRAINT "fk_membership_center_id"
				FOREIGN KEY ("center_id") REFERENCES "center"("id") ON DELETE CASCADE`,
		},
	}
	for _, c := range constraints {
		var exists bool
		if err := s.db.Raw(
			`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`, c.name,
		).Scan(&exists).Error; err != nil {
			return fmt.Errorf("check constraint %s: %w", c.name, err)
		}
		if exists {
			continue
		}
		if err := s.db.Exec(c.ddl).Error; err != nil {
			return fmt.Errorf("add %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
