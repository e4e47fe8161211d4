package stack

// Template holds, for one stack identifier, the framework-specific guidance
// that turns a generic generation request into framework-accurate output.
type Template struct {
	// CoreInstructions is always injected into every sub-stage prompt that
	// targets this identifier — the full string, never truncated (historical
	// bug: a prior implementation sliced this to [:500] and silently dropped
	// the tail; see the design notes this template registry is grounded on).
	CoreInstructions string `yaml:"core_instructions"`

	// StylingRequirements only applies to frontend templates.
	StylingRequirements string `yaml:"styling_requirements,omitempty"`

	Dependencies    []string `yaml:"dependencies"`
	DevDependencies []string `yaml:"dev_dependencies"`
}

func builtinFrontendTemplates() map[Frontend]Template {
	return map[Frontend]Template{
		FrontendReact: {
			CoreInstructions: "Use React 18 with functional components and hooks exclusively. " +
				"State lives in component-local useState/useReducer or a lightweight context " +
				"provider; do not introduce Redux unless explicitly requested. Use React Router " +
				"v6 for client-side routing. All API calls go through a single fetch wrapper in " +
				"utils/api that attaches the auth header and handles JSON errors uniformly.",
			StylingRequirements: "Tailwind CSS utility classes for all styling; no inline style objects.",
			Dependencies:        []string{"react@^18.2.0", "react-dom@^18.2.0", "react-router-dom@^6.22.0"},
			DevDependencies:     []string{"vite@^5.1.0", "@vitejs/plugin-react@^4.2.0", "tailwindcss@^3.4.0"},
		},
		FrontendVue: {
			CoreInstructions: "Use Vue 3 with the Composition API and <script setup> single-file " +
				"components exclusively; do not emit Options API components. Use Pinia for any " +
				"state that crosses more than two components. Use vue-router 4 for routing.",
			StylingRequirements: "Tailwind CSS utility classes for all styling.",
			Dependencies:        []string{"vue@^3.4.0", "vue-router@^4.3.0", "pinia@^2.1.0"},
			DevDependencies:     []string{"vite@^5.1.0", "@vitejs/plugin-vue@^5.0.0", "tailwindcss@^3.4.0"},
		},
		FrontendAngular: {
			CoreInstructions: "Use Angular 17 with standalone components; do not generate NgModules " +
				"unless a feature genuinely needs lazy-loaded module boundaries. Use Angular's " +
				"built-in HttpClient with interceptors for auth headers. Use the Angular Router " +
				"for navigation.",
			StylingRequirements: "SCSS with Angular Material component styling conventions.",
			Dependencies:        []string{"@angular/core@^17.1.0", "@angular/router@^17.1.0", "@angular/material@^17.1.0"},
			DevDependencies:     []string{"@angular/cli@^17.1.0", "typescript@^5.3.0"},
		},
		FrontendHTML: {
			CoreInstructions: "Use plain semantic HTML5, vanilla ES modules, and the Fetch API — no " +
				"build step, no framework runtime. Keep one script module per page concern.",
			StylingRequirements: "Plain CSS with custom properties for theming; no preprocessor.",
			Dependencies:        []string{},
			DevDependencies:     []string{},
		},
	}
}

func builtinBackendTemplates() map[Backend]Template {
	return map[Backend]Template{
		BackendFastAPI: {
			CoreInstructions: "Use FastAPI with Pydantic v2 models for every request/response body. " +
				"Routes live in an APIRouter per resource under routes/. Use SQLAlchemy 2.0 style " +
				"declarative models with an async session dependency. Raise HTTPException for " +
				"client errors; never let bare exceptions propagate to the client.",
			Dependencies:    []string{"fastapi==0.110.*", "uvicorn[standard]==0.27.*", "sqlalchemy==2.0.*", "pydantic==2.6.*"},
			DevDependencies: []string{"pytest==8.0.*", "httpx==0.27.*"},
		},
		BackendFlask: {
			CoreInstructions: "Use Flask with the application-factory pattern and Blueprints per " +
				"resource. Use Flask-SQLAlchemy for the ORM layer and marshmallow (or equivalent) " +
				"schemas for request validation. Return JSON error bodies via a registered error " +
				"handler, never a stack trace.",
			Dependencies:    []string{"flask==3.0.*", "flask-sqlalchemy==3.1.*", "marshmallow==3.21.*"},
			DevDependencies: []string{"pytest==8.0.*"},
		},
		BackendExpress: {
			CoreInstructions: "Use Express 4 with a router per resource under routes/. Validate " +
				"request bodies with zod. Centralize error handling in a single error-handling " +
				"middleware registered last. Use an async-handler wrapper so rejected promises " +
				"reach that middleware instead of crashing the process.",
			Dependencies:    []string{"express@^4.19.0", "zod@^3.22.0"},
			DevDependencies: []string{"nodemon@^3.1.0", "jest@^29.7.0"},
		},
		BackendDjango: {
			CoreInstructions: "Use Django 5 with Django REST Framework for every API endpoint; model " +
				"classes live in models.py per app, serializers in serializers.py, viewsets in " +
				"views.py registered through a DefaultRouter. Use Django's built-in auth user model " +
				"unless the plan calls for a custom user model.",
			Dependencies:    []string{"django==5.0.*", "djangorestframework==3.15.*"},
			DevDependencies: []string{"pytest-django==4.8.*"},
		},
		BackendDotNet: {
			CoreInstructions: "Use ASP.NET Core 8 minimal APIs or controller-based endpoints grouped " +
				"per resource. Use Entity Framework Core with a DbContext and code-first migrations. " +
				"Use the built-in dependency injection container for all services; never instantiate " +
				"a DbContext directly in a controller.",
			Dependencies:    []string{"Microsoft.AspNetCore.App", "Microsoft.EntityFrameworkCore@8.0.*"},
			DevDependencies: []string{"Microsoft.AspNetCore.Mvc.Testing@8.0.*"},
		},
	}
}

func builtinDatabaseTemplates() map[Database]Template {
	return map[Database]Template{
		DatabasePostgreSQL: {
			CoreInstructions: "Schema migrations are explicit SQL or ORM-native migration files, " +
				"never ad-hoc table creation at startup. Primary keys are UUID or bigserial per the " +
				"ORM's convention. Foreign keys declare ON DELETE behavior explicitly.",
			Dependencies: []string{"psycopg[binary]==3.1.*"},
		},
		DatabaseMySQL: {
			CoreInstructions: "Use InnoDB tables with explicit foreign key constraints. Use utf8mb4 " +
				"as the connection and table charset.",
			Dependencies: []string{"pymysql==1.1.*"},
		},
		DatabaseMongoDB: {
			CoreInstructions: "Model collections with the ORM/ODM's schema validation layer; embed " +
				"one-to-few relations, reference one-to-many. Create indexes for every field used " +
				"in a query filter.",
			Dependencies: []string{"pymongo==4.6.*"},
		},
		DatabaseSQLite: {
			CoreInstructions: "Use a single file-based database suitable for local development; " +
				"enable WAL journal mode and foreign_keys pragma at connection time.",
			Dependencies: []string{},
		},
		DatabaseRedis: {
			CoreInstructions: "Use Redis as the primary store only for cache-shaped or ephemeral " +
				"data; key naming follows resource:id:field convention with explicit TTLs on " +
				"ephemeral keys.",
			Dependencies: []string{"redis==5.0.*"},
		},
	}
}
