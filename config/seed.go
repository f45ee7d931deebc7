package config

import (
	"gorm.io/gorm"

	"github.com/vnkhanh/interquiz-backend/models"
)

func text(s string) *string { return &s }

// SeedCatalog nạp các bảng tra cứu nếu chưa có.
// Dùng FirstOrCreate theo name nên chạy lại nhiều lần vẫn an toàn.
func SeedCatalog(db *gorm.DB) error {
	techTypes := []models.TechnologyType{
		{Name: "backend", DisplayName: "Backend"},
		{Name: "frontend", DisplayName: "Frontend"},
	}
	techIDs := map[string]uint{}
	for i := range techTypes {
		if err := db.Where(models.TechnologyType{Name: techTypes[i].Name}).
			FirstOrCreate(&techTypes[i]).Error; err != nil {
			return err
		}
		techIDs[techTypes[i].Name] = techTypes[i].ID
	}

	difficulties := []models.DifficultyLevel{
		{Name: "junior", DisplayName: "Junior", Description: text("0-2 năm kinh nghiệm, kiến thức nền tảng, cú pháp"), SortOrder: 1},
		{Name: "mid", DisplayName: "Mid", Description: text("2-5 năm kinh nghiệm, tình huống thực tế, best practices"), SortOrder: 2},
		{Name: "senior", DisplayName: "Senior", Description: text("5-8 năm kinh nghiệm, khái niệm nâng cao, tối ưu hoá"), SortOrder: 3},
		{Name: "tech_lead", DisplayName: "Tech Lead", Description: text("8+ năm kinh nghiệm, leadership kỹ thuật, thiết kế hệ thống"), SortOrder: 4},
		{Name: "architect", DisplayName: "Architect IT", Description: text("10+ năm kinh nghiệm, kiến trúc enterprise, khả năng mở rộng"), SortOrder: 5},
	}
	for i := range difficulties {
		if err := db.Where(models.DifficultyLevel{Name: difficulties[i].Name}).
			FirstOrCreate(&difficulties[i]).Error; err != nil {
			return err
		}
	}

	languages := []models.ProgrammingLanguage{
		{Name: "csharp", DisplayName: "C# / .NET", TechnologyTypeID: techIDs["backend"]},
		{Name: "java", DisplayName: "Java / Spring", TechnologyTypeID: techIDs["backend"]},
		{Name: "python", DisplayName: "Python", TechnologyTypeID: techIDs["backend"]},
		{Name: "nodejs", DisplayName: "Node.js / Express", TechnologyTypeID: techIDs["backend"]},
		{Name: "go", DisplayName: "Go", TechnologyTypeID: techIDs["backend"]},
		{Name: "rust", DisplayName: "Rust", TechnologyTypeID: techIDs["backend"]},
		{Name: "php", DisplayName: "PHP", TechnologyTypeID: techIDs["backend"]},
		{Name: "ruby", DisplayName: "Ruby", TechnologyTypeID: techIDs["backend"]},
		{Name: "vue3", DisplayName: "Vue 3", TechnologyTypeID: techIDs["frontend"]},
		{Name: "react", DisplayName: "React", TechnologyTypeID: techIDs["frontend"]},
		{Name: "angular", DisplayName: "Angular", TechnologyTypeID: techIDs["frontend"]},
		{Name: "svelte", DisplayName: "Svelte", TechnologyTypeID: techIDs["frontend"]},
		{Name: "typescript", DisplayName: "TypeScript (tổng quát)", TechnologyTypeID: techIDs["frontend"]},
		{Name: "javascript", DisplayName: "JavaScript (tổng quát)", TechnologyTypeID: techIDs["frontend"]},
	}
	for i := range languages {
		if err := db.Where(models.ProgrammingLanguage{Name: languages[i].Name}).
			FirstOrCreate(&languages[i]).Error; err != nil {
			return err
		}
	}

	categories := []models.Category{
		// Backend
		{Name: "fundamentals", DisplayName: "Nền tảng ngôn ngữ", Description: text("Kiểu dữ liệu, OOP, quản lý bộ nhớ, async/await, generics"), TechnologyTypeID: techIDs["backend"], AllowsHint: false},
		{Name: "architecture", DisplayName: "Kiến trúc & Design Patterns", Description: text("SOLID, Design Patterns, Clean Architecture, DDD, CQRS"), TechnologyTypeID: techIDs["backend"], AllowsHint: false},
		{Name: "databases", DisplayName: "Cơ sở dữ liệu", Description: text("SQL, ORM, tối ưu hoá, transaction, index"), TechnologyTypeID: techIDs["backend"], AllowsHint: true},
		{Name: "api", DisplayName: "API & Giao tiếp", Description: text("REST, HTTP, WebSockets, gRPC, serialization JSON/XML"), TechnologyTypeID: techIDs["backend"], AllowsHint: false},
		{Name: "testing", DisplayName: "Chất lượng & Kiểm thử", Description: text("Unit test, integration test, TDD, mocking, refactoring"), TechnologyTypeID: techIDs["backend"], AllowsHint: false},
		{Name: "security", DisplayName: "Bảo mật", Description: text("OWASP Top 10, authentication, authorization, JWT, mã hoá"), TechnologyTypeID: techIDs["backend"], AllowsHint: false},
		{Name: "devops", DisplayName: "DevOps & Công cụ", Description: text("CI/CD, Docker, Kubernetes, Git, monitoring, logging"), TechnologyTypeID: techIDs["backend"], AllowsHint: true},
		// Frontend
		{Name: "framework_fundamentals", DisplayName: "Nền tảng framework", Description: text("Component, lifecycle, reactivity, props, events, slots"), TechnologyTypeID: techIDs["frontend"], AllowsHint: false},
		{Name: "state_management", DisplayName: "State Management", Description: text("Quản lý state (Pinia, Vuex, Redux, Zustand)"), TechnologyTypeID: techIDs["frontend"], AllowsHint: true},
		{Name: "routing", DisplayName: "Routing & Navigation", Description: text("Router, guards, lazy loading, dynamic routes"), TechnologyTypeID: techIDs["frontend"], AllowsHint: false},
		{Name: "frontend_testing", DisplayName: "Kiểm thử frontend", Description: text("Unit test, component test, E2E (Vitest, Jest, Cypress)"), TechnologyTypeID: techIDs["frontend"], AllowsHint: true},
		{Name: "performance", DisplayName: "Performance & Tối ưu", Description: text("Bundle size, code splitting, memoization, virtual DOM"), TechnologyTypeID: techIDs["frontend"], AllowsHint: false},
		{Name: "typescript_frontend", DisplayName: "TypeScript & Typing", Description: text("Kiểu trong ngữ cảnh framework, generics, utility types"), TechnologyTypeID: techIDs["frontend"], AllowsHint: false},
	}
	for i := range categories {
		if err := db.Where(models.Category{
			Name:             categories[i].Name,
			TechnologyTypeID: categories[i].TechnologyTypeID,
		}).FirstOrCreate(&categories[i]).Error; err != nil {
			return err
		}
	}

	return nil
}
